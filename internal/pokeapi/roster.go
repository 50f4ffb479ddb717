package pokeapi

import (
	"context"
	"fmt"
)

// chainListLimit covers every evolution chain PokeAPI currently serves.
const chainListLimit = 1000

// ListEvolutionChains returns the URLs of all evolution chains.
func (c *Client) ListEvolutionChains(ctx context.Context) ([]string, error) {
	var p listPayload
	url := c.resolve(fmt.Sprintf("evolution-chain/?limit=%d", chainListLimit))
	if err := c.getJSON(ctx, "chain list", url, &p); err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(p.Results))
	for _, r := range p.Results {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls, nil
}

// BaseCandidate reports the base creature of a chain if it is eligible for
// random assignment: the chain must actually evolve, and the base species
// must be neither legendary nor mythical.
func (c *Client) BaseCandidate(ctx context.Context, chainURL string) (int, bool, error) {
	var p chainPayload
	if err := c.getJSON(ctx, "evolution chain", c.resolve(chainURL), &p); err != nil {
		return 0, false, err
	}
	if p.Chain == nil || p.Chain.Species.URL == "" {
		return 0, false, c.malformed("evolution chain", chainURL, "missing base species")
	}
	if len(p.Chain.EvolvesTo) == 0 {
		return 0, false, nil
	}

	id, err := IDFromURL(p.Chain.Species.URL)
	if err != nil {
		return 0, false, &ProviderError{Op: "evolution chain", URL: chainURL, Err: err}
	}

	var s speciesPayload
	if err := c.getJSON(ctx, "species", c.resolve(p.Chain.Species.URL), &s); err != nil {
		return 0, false, err
	}
	if s.IsLegendary || s.IsMythical {
		return 0, false, nil
	}
	return id, true, nil
}
