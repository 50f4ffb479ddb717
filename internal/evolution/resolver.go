package evolution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Source is the narrow view of the creature database the resolver needs.
type Source interface {
	// SpeciesRef returns the species reference for a creature id.
	SpeciesRef(ctx context.Context, creatureID int) (string, error)

	// FetchEvolutionChain returns the evolution tree for a species.
	FetchEvolutionChain(ctx context.Context, speciesRef string) (*Node, error)
}

// Resolver fetches and flattens evolution chains.
type Resolver struct {
	source  Source
	timeout time.Duration
	logger  zerolog.Logger
}

// NewResolver creates a Resolver. A zero timeout disables the per-call limit.
func NewResolver(source Source, timeout time.Duration, logger zerolog.Logger) *Resolver {
	return &Resolver{
		source:  source,
		timeout: timeout,
		logger:  logger.With().Str("component", "evolution").Logger(),
	}
}

// Resolve returns the chain that contains creatureID. Errors are either
// provider failures or wrap ErrMalformedChain; callers should fall back to
// Terminal(creatureID) in both cases.
func (r *Resolver) Resolve(ctx context.Context, creatureID int) (*Chain, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	chain, err := r.resolve(ctx, creatureID)
	if err != nil {
		ev := r.logger.Warn()
		if errors.Is(err, ErrMalformedChain) {
			ev = r.logger.Error()
		}
		ev.Err(err).Int("creature_id", creatureID).Msg("evolution chain unavailable")
		return nil, err
	}

	r.logger.Debug().
		Int("creature_id", creatureID).
		Int("root", chain.Root()).
		Int("size", chain.Len()).
		Msg("evolution chain resolved")
	return chain, nil
}

func (r *Resolver) resolve(ctx context.Context, creatureID int) (*Chain, error) {
	ref, err := r.source.SpeciesRef(ctx, creatureID)
	if err != nil {
		return nil, fmt.Errorf("species of creature %d: %w", creatureID, err)
	}

	tree, err := r.source.FetchEvolutionChain(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("evolution chain of creature %d: %w", creatureID, err)
	}

	chain, err := Flatten(tree)
	if err != nil {
		return nil, fmt.Errorf("evolution chain of creature %d: %w", creatureID, err)
	}
	if !chain.Contains(creatureID) {
		return nil, fmt.Errorf("%w: creature %d not in chain rooted at %d", ErrMalformedChain, creatureID, chain.Root())
	}
	return chain, nil
}
