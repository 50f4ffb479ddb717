package pokeapi

// Creature is the display data for one creature.
type Creature struct {
	ID            int
	DisplayName   string
	LocalizedName string // empty when no localized name is available
	ImageURL      string
	SpeciesRef    string
}

// Name returns the localized name when known, otherwise the display name.
func (c Creature) Name() string {
	if c.LocalizedName != "" {
		return c.LocalizedName
	}
	return c.DisplayName
}

type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type pokemonPayload struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Species namedRef `json:"species"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        map[string]struct {
			FrontDefault string `json:"front_default"`
		} `json:"other"`
	} `json:"sprites"`
}

type speciesPayload struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Names []struct {
		Language namedRef `json:"language"`
		Name     string   `json:"name"`
	} `json:"names"`
	EvolutionChain struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
	IsLegendary bool `json:"is_legendary"`
	IsMythical  bool `json:"is_mythical"`
}

type chainLink struct {
	Species   namedRef    `json:"species"`
	EvolvesTo []chainLink `json:"evolves_to"`
}

type chainPayload struct {
	ID    int        `json:"id"`
	Chain *chainLink `json:"chain"`
}

type listPayload struct {
	Count   int `json:"count"`
	Results []struct {
		URL string `json:"url"`
	} `json:"results"`
}
