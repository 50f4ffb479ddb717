package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/abhisek/todomon/internal/evolution"
)

const (
	// DefaultBaseURL is the public PokeAPI endpoint.
	DefaultBaseURL = "https://pokeapi.co/api/v2"

	// DefaultTimeout bounds every request made by the client.
	DefaultTimeout = 10 * time.Second

	officialArtwork = "official-artwork"
	maxBodyBytes    = 4 << 20
)

// Client is a read-only PokeAPI client.
type Client struct {
	client  *http.Client
	baseURL string
	locale  language.Tag
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLocale sets the preferred language for localized creature names.
func WithLocale(tag language.Tag) Option {
	return func(c *Client) { c.locale = tag }
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultBaseURL,
		locale:  language.English,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchCreature returns display data for a creature. The localized name is
// best effort: a failed species lookup leaves it empty.
func (c *Client) FetchCreature(ctx context.Context, id int) (*Creature, error) {
	var p pokemonPayload
	if err := c.getJSON(ctx, "creature", c.resolve(fmt.Sprintf("pokemon/%d", id)), &p); err != nil {
		return nil, err
	}
	if p.ID <= 0 || p.Name == "" {
		return nil, c.malformed("creature", fmt.Sprintf("pokemon/%d", id), "missing id or name")
	}

	cr := &Creature{
		ID:          p.ID,
		DisplayName: displayName(p.Name),
		ImageURL:    p.Sprites.FrontDefault,
		SpeciesRef:  p.Species.URL,
	}
	if art, ok := p.Sprites.Other[officialArtwork]; ok && art.FrontDefault != "" {
		cr.ImageURL = art.FrontDefault
	}

	if p.Species.URL != "" {
		var s speciesPayload
		if err := c.getJSON(ctx, "species", c.resolve(p.Species.URL), &s); err == nil {
			cr.LocalizedName = c.localizedName(s)
		}
	}
	return cr, nil
}

// SpeciesRef returns the species URL for a creature.
func (c *Client) SpeciesRef(ctx context.Context, creatureID int) (string, error) {
	var p pokemonPayload
	path := fmt.Sprintf("pokemon/%d", creatureID)
	if err := c.getJSON(ctx, "creature", c.resolve(path), &p); err != nil {
		return "", err
	}
	if p.Species.URL == "" {
		return "", c.malformed("creature", path, "missing species")
	}
	return p.Species.URL, nil
}

// FetchEvolutionChain returns the evolution tree that the species belongs
// to, rooted at the chain's base creature. Creature ids are species ids.
func (c *Client) FetchEvolutionChain(ctx context.Context, speciesRef string) (*evolution.Node, error) {
	var s speciesPayload
	if err := c.getJSON(ctx, "species", c.resolve(speciesRef), &s); err != nil {
		return nil, err
	}
	if s.EvolutionChain.URL == "" {
		return nil, c.malformed("species", speciesRef, "missing evolution_chain")
	}
	return c.fetchChainTree(ctx, s.EvolutionChain.URL)
}

func (c *Client) fetchChainTree(ctx context.Context, chainURL string) (*evolution.Node, error) {
	var p chainPayload
	if err := c.getJSON(ctx, "evolution chain", c.resolve(chainURL), &p); err != nil {
		return nil, err
	}
	if p.Chain == nil {
		return nil, c.malformed("evolution chain", chainURL, "missing chain")
	}
	root, err := toNode(p.Chain)
	if err != nil {
		return nil, &ProviderError{Op: "evolution chain", URL: chainURL, Err: err}
	}
	return root, nil
}

func toNode(l *chainLink) (*evolution.Node, error) {
	id, err := IDFromURL(l.Species.URL)
	if err != nil {
		return nil, err
	}
	n := &evolution.Node{ID: id}
	for i := range l.EvolvesTo {
		child, err := toNode(&l.EvolvesTo[i])
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// IDFromURL extracts the trailing numeric id from a resource URL such as
// https://pokeapi.co/api/v2/pokemon-species/25/.
func IDFromURL(u string) (int, error) {
	trimmed := strings.TrimRight(u, "/")
	idx := strings.LastIndex(trimmed, "/")
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("no resource id in %q", u)
	}
	return id, nil
}

// localizedName picks the species name that best matches the configured
// locale. It returns "" when the best match is not a real match.
func (c *Client) localizedName(s speciesPayload) string {
	if len(s.Names) == 0 {
		return ""
	}
	tags := make([]language.Tag, 0, len(s.Names))
	names := make([]string, 0, len(s.Names))
	for _, n := range s.Names {
		tag, err := language.Parse(n.Language.Name)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, n.Name)
	}
	if len(tags) == 0 {
		return ""
	}

	_, idx, conf := language.NewMatcher(tags).Match(c.locale)
	if conf == language.No {
		return ""
	}
	return names[idx]
}

func (c *Client) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

func (c *Client) getJSON(ctx context.Context, op, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &ProviderError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &ProviderError{Op: op, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &ProviderError{
			Op:         op,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return &ProviderError{Op: op, URL: url, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) malformed(op, ref, msg string) error {
	return &ProviderError{Op: op, URL: c.resolve(ref), Err: fmt.Errorf("malformed payload: %s", msg)}
}

func displayName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
