package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// fakeAPI serves a tiny subset of PokeAPI: Eevee (133) branching into
// Vaporeon (134) and Jolteon (135), Mew (151) as a single-stage chain and
// Cosmog (789) as a legendary base.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/pokemon/133", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"id": 133,
			"name": "eevee",
			"species": {"name": "eevee", "url": "%s/pokemon-species/133/"},
			"sprites": {
				"front_default": "https://img.example/133.png",
				"other": {"official-artwork": {"front_default": "https://img.example/art/133.png"}}
			}
		}`, srv.URL)
	})
	mux.HandleFunc("/pokemon-species/133/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"id": 133,
			"name": "eevee",
			"names": [
				{"language": {"name": "ja-Hrkt"}, "name": "イーブイ"},
				{"language": {"name": "ko"}, "name": "이브이"},
				{"language": {"name": "en"}, "name": "Eevee"}
			],
			"evolution_chain": {"url": "%s/evolution-chain/67/"},
			"is_legendary": false,
			"is_mythical": false
		}`, srv.URL)
	})
	mux.HandleFunc("/evolution-chain/67/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"id": 67,
			"chain": {
				"species": {"name": "eevee", "url": "%[1]s/pokemon-species/133/"},
				"evolves_to": [
					{"species": {"name": "vaporeon", "url": "%[1]s/pokemon-species/134/"}, "evolves_to": []},
					{"species": {"name": "jolteon", "url": "%[1]s/pokemon-species/135/"}, "evolves_to": []}
				]
			}
		}`, srv.URL)
	})
	mux.HandleFunc("/evolution-chain/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/evolution-chain/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"count": 3, "results": [
			{"url": "%[1]s/evolution-chain/67/"},
			{"url": "%[1]s/evolution-chain/77/"},
			{"url": "%[1]s/evolution-chain/400/"}
		]}`, srv.URL)
	})
	mux.HandleFunc("/evolution-chain/77/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": 77, "chain": {
			"species": {"name": "mew", "url": "%s/pokemon-species/151/"},
			"evolves_to": []
		}}`, srv.URL)
	})
	mux.HandleFunc("/evolution-chain/400/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id": 400, "chain": {
			"species": {"name": "cosmog", "url": "%[1]s/pokemon-species/789/"},
			"evolves_to": [{"species": {"name": "cosmoem", "url": "%[1]s/pokemon-species/790/"}, "evolves_to": []}]
		}}`, srv.URL)
	})
	mux.HandleFunc("/pokemon-species/789/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 789, "name": "cosmog", "is_legendary": true, "is_mythical": false}`)
	})
	mux.HandleFunc("/pokemon/404", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/pokemon/500", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 500, "name": `)
	})
	mux.HandleFunc("/pokemon/999", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{}`)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCreature(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(WithBaseURL(srv.URL), WithLocale(language.Korean))

	cr, err := c.FetchCreature(context.Background(), 133)
	require.NoError(t, err)
	assert.Equal(t, 133, cr.ID)
	assert.Equal(t, "Eevee", cr.DisplayName)
	assert.Equal(t, "이브이", cr.LocalizedName)
	assert.Equal(t, "이브이", cr.Name())
	assert.Equal(t, "https://img.example/art/133.png", cr.ImageURL)
	assert.Equal(t, srv.URL+"/pokemon-species/133/", cr.SpeciesRef)
}

func TestFetchCreature_NoLocaleMatch(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(WithBaseURL(srv.URL), WithLocale(language.Swahili))

	cr, err := c.FetchCreature(context.Background(), 133)
	require.NoError(t, err)
	assert.Equal(t, "Eevee", cr.Name())
}

func TestFetchCreature_Errors(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond))

	tests := []struct {
		name       string
		id         int
		wantStatus int
		wantTO     bool
	}{
		{"not found", 404, http.StatusNotFound, false},
		{"malformed json", 500, 0, false},
		{"timeout", 999, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.FetchCreature(context.Background(), tt.id)
			var pe *ProviderError
			require.True(t, errors.As(err, &pe), "error %v is not a ProviderError", err)
			assert.Equal(t, tt.wantStatus, pe.StatusCode)
			assert.Equal(t, tt.wantTO, pe.Timeout())
			assert.True(t, IsProviderError(err))
		})
	}
}

func TestFetchCreature_Unreachable(t *testing.T) {
	srv := fakeAPI(t)
	url := srv.URL
	srv.Close()

	_, err := NewClient(WithBaseURL(url)).FetchCreature(context.Background(), 133)
	assert.True(t, IsProviderError(err))
}

func TestSpeciesRefAndChain(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(WithBaseURL(srv.URL))
	ctx := context.Background()

	ref, err := c.SpeciesRef(ctx, 133)
	require.NoError(t, err)

	root, err := c.FetchEvolutionChain(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 133, root.ID)
	require.Len(t, root.Children, 2)
	assert.Equal(t, 134, root.Children[0].ID)
	assert.Equal(t, 135, root.Children[1].ID)
}

func TestIDFromURL(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"https://pokeapi.co/api/v2/pokemon-species/25/", 25, false},
		{"https://pokeapi.co/api/v2/pokemon-species/25", 25, false},
		{"https://pokeapi.co/api/v2/pokemon-species/pikachu/", 0, true},
		{"", 0, true},
		{"/0/", 0, true},
	}
	for _, tt := range tests {
		got, err := IDFromURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestListEvolutionChains(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(WithBaseURL(srv.URL))

	urls, err := c.ListEvolutionChains(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/evolution-chain/67/",
		srv.URL + "/evolution-chain/77/",
		srv.URL + "/evolution-chain/400/",
	}, urls)
}

func TestBaseCandidate(t *testing.T) {
	srv := fakeAPI(t)
	c := NewClient(WithBaseURL(srv.URL))
	ctx := context.Background()

	id, ok, err := c.BaseCandidate(ctx, srv.URL+"/evolution-chain/67/")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 133, id)

	_, ok, err = c.BaseCandidate(ctx, srv.URL+"/evolution-chain/77/")
	require.NoError(t, err)
	assert.False(t, ok, "single-stage chains are skipped")

	_, ok, err = c.BaseCandidate(ctx, srv.URL+"/evolution-chain/400/")
	require.NoError(t, err)
	assert.False(t, ok, "legendary bases are skipped")

	_, _, err = c.BaseCandidate(ctx, srv.URL+"/evolution-chain/12345/")
	assert.True(t, IsProviderError(err))
}
