package roster

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the concurrency used for bulk generation.
const DefaultWorkers = 32

// Source lists evolution chains and reports eligible base creatures.
type Source interface {
	ListEvolutionChains(ctx context.Context) ([]string, error)
	BaseCandidate(ctx context.Context, chainURL string) (int, bool, error)
}

// Progress is reported after every processed chain.
type Progress struct {
	Done      int
	Total     int
	Collected int
}

// GenerateOptions tunes Generate.
type GenerateOptions struct {
	Workers  int
	Logger   zerolog.Logger
	Progress func(Progress)
}

// Generate collects the base creature of every eligible evolution chain.
// Failures on individual chains are logged and skipped; only a failure to
// list the chains, or cancellation, aborts the run.
func Generate(ctx context.Context, src Source, opts GenerateOptions) ([]int, error) {
	urls, err := src.ListEvolutionChains(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evolution chains: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		mu   sync.Mutex
		ids  []int
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, u := range urls {
		g.Go(func() error {
			id, ok, err := src.BaseCandidate(gctx, u)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				opts.Logger.Warn().Err(err).Str("chain", u).Msg("skipping evolution chain")
			}

			mu.Lock()
			defer mu.Unlock()
			if ok {
				ids = append(ids, id)
			}
			done++
			if opts.Progress != nil {
				opts.Progress(Progress{Done: done, Total: len(urls), Collected: len(ids)})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return normalize(ids), nil
}
