// Package session owns the state of one logged-in user: the progression
// engine, the task registry, the daily reset timers and the fetch workers
// that resolve creatures and evolution chains.
//
// A Session is not safe for concurrent use. All methods, including Handle,
// must be called from the goroutine that owns it; asynchronous results are
// delivered on Updates and applied through Handle.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/todomon/internal/evolution"
	"github.com/abhisek/todomon/internal/pokeapi"
	"github.com/abhisek/todomon/internal/progression"
	"github.com/abhisek/todomon/internal/store"
	"github.com/abhisek/todomon/internal/tasks"
)

// DefaultWorkers is the fetch pool size when Deps.Workers is unset.
const DefaultWorkers = 3

// eventTimeout bounds each event log write.
const eventTimeout = 2 * time.Second

// closeGrace bounds how long Close waits for a deferred advance.
const closeGrace = 3 * time.Second

// ChainResolver looks up the evolution chain containing a creature.
type ChainResolver interface {
	Resolve(ctx context.Context, creatureID int) (*evolution.Chain, error)
}

// CreatureFetcher loads display details for a creature.
type CreatureFetcher interface {
	FetchCreature(ctx context.Context, id int) (*pokeapi.Creature, error)
}

// Deps are the collaborators a session needs. Users is required; the rest
// are optional.
type Deps struct {
	Users     store.UserRepo
	Events    store.EventRepo
	Creatures CreatureFetcher
	Resolver  ChainResolver
	Roster    progression.Roster
	Clock     tasks.Clock
	Workers   int
	Logger    zerolog.Logger
	Rand      *rand.Rand
}

// Session is one user's live game.
type Session struct {
	id       string
	username string
	deps     Deps
	logger   zerolog.Logger

	engine   *progression.Engine
	registry *tasks.Registry
	resetter *tasks.Resetter

	creature    *pokeapi.Creature
	creatureErr error
	lastSaveErr error
	inflight    int
	settled     []progression.Outcome

	updates chan Msg
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	pool    *fetchPool

	closeOnce sync.Once
	closed    bool
	loggedIn  bool
}

// Open loads username and starts a session. Unknown users are created when
// create is set; otherwise the returned error wraps store.ErrNotFound.
// Corrupt saves are never replaced and surface as store.ErrCorrupt.
func Open(ctx context.Context, username string, deps Deps, create bool) (*Session, error) {
	if deps.Users == nil {
		return nil, errors.New("session: no user store")
	}
	if err := store.ValidateUsername(username); err != nil {
		return nil, err
	}
	if deps.Clock == nil {
		deps.Clock = tasks.SystemClock{}
	}
	if deps.Workers < 1 {
		deps.Workers = DefaultWorkers
	}

	save, err := deps.Users.Load(ctx, username)
	isNew := false
	switch {
	case errors.Is(err, store.ErrNotFound) && create:
		save = &store.UserSave{
			Level:            1,
			CurrentPokemonID: progression.PickBase(deps.Roster, deps.Rand),
			Tasks:            []tasks.Task{},
		}
		isNew = true
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", username, err)
	}

	id := uuid.New().String()
	s := &Session{
		id:       id,
		username: username,
		deps:     deps,
		logger:   deps.Logger.With().Str("user", username).Str("session", id).Logger(),
		engine:   progression.NewEngine(save.CurrentPokemonID, deps.Roster, deps.Rand),
		registry: tasks.NewRegistry(save.Tasks),
		updates:  make(chan Msg, 64),
		done:     make(chan struct{}),
	}
	s.engine.Restore(save.Level, save.XP, save.CurrentPokemonID)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.pool = newFetchPool(s.ctx, deps.Workers, s.updates, s.done)
	s.resetter = tasks.NewResetter(deps.Clock, s.postReset)

	if isNew {
		if err := s.persist(); err != nil {
			s.Close()
			return nil, err
		}
		s.logger.Info().Int("creature_id", save.CurrentPokemonID).Msg("created user")
	}

	// Completed persistent tasks from an earlier day reset at the next
	// midnight rather than immediately.
	for i, t := range s.registry.List() {
		if t.Completed && t.Persistent() {
			s.resetter.Schedule(i)
		}
	}

	s.requestChain(s.engine.State().CreatureID)
	s.requestCreature(s.engine.State().CreatureID)
	s.record(store.EventLogin, "")
	s.loggedIn = true
	return s, nil
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Username returns the logged-in user.
func (s *Session) Username() string { return s.username }

// Updates delivers asynchronous results. Each value must be passed to Handle.
func (s *Session) Updates() <-chan Msg { return s.updates }

// Handle applies an asynchronous result. Results for a creature other than
// the current one are discarded. The returned error is a *SaveError when the
// change could not be persisted.
func (s *Session) Handle(msg Msg) error {
	if s.closed {
		return nil
	}
	switch m := msg.(type) {
	case ChainResolvedMsg:
		s.fetchDone()
		if m.Err != nil {
			if !s.engine.ApplyChainFailure(m.ForID) {
				s.logger.Debug().Int("creature_id", m.ForID).Msg("discarding stale chain failure")
			}
			return s.settleAdvance()
		}
		if !s.engine.ApplyChain(m.ForID, m.Chain) {
			s.logger.Debug().Int("creature_id", m.ForID).Msg("discarding stale chain")
			return nil
		}
		return s.settleAdvance()
	case CreatureLoadedMsg:
		s.fetchDone()
		if m.ForID != s.engine.State().CreatureID {
			s.logger.Debug().Int("creature_id", m.ForID).Msg("discarding stale creature")
			return nil
		}
		if m.Err != nil {
			s.logger.Warn().Err(m.Err).Int("creature_id", m.ForID).Msg("creature details unavailable")
			s.creature, s.creatureErr = nil, m.Err
			return nil
		}
		s.creature, s.creatureErr = m.Creature, nil
	case ResetDueMsg:
		return s.applyReset(m.Index)
	default:
		s.logger.Warn().Type("msg", msg).Msg("unknown session message")
	}
	return nil
}

// Pending reports how many fetches have not been handled yet.
func (s *Session) Pending() int { return s.inflight }

// Settle handles updates until no fetches are outstanding or ctx is done.
// Reset notifications that arrive meanwhile are applied too.
func (s *Session) Settle(ctx context.Context) error {
	for s.inflight > 0 && !s.closed {
		select {
		case msg := <-s.updates:
			if err := s.Handle(msg); err != nil {
				s.logger.Warn().Err(err).Msg("save failed while settling")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close stops timers and workers and records the logout. An advance still
// waiting on its chain gets a short grace period to settle and be saved.
// Results that arrive afterwards are ignored. Close is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.engine.Deferred() {
			ctx, cancel := context.WithTimeout(context.Background(), closeGrace)
			if err := s.Settle(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("closing with an unsettled stage advance")
			}
			cancel()
		}
		if s.loggedIn {
			s.record(store.EventLogout, "")
		}
		s.closed = true
		s.resetter.Stop()
		s.cancel()
		close(s.done)
		s.pool.close()
	})
}

func (s *Session) fetchDone() {
	if s.inflight > 0 {
		s.inflight--
	}
}

// postReset runs on a timer goroutine.
func (s *Session) postReset(index int) {
	select {
	case s.updates <- ResetDueMsg{Index: index}:
	case <-s.done:
	}
}

func (s *Session) requestChain(creatureID int) {
	if s.deps.Resolver == nil {
		s.engine.ApplyChainFailure(creatureID)
		return
	}
	resolver := s.deps.Resolver
	ok := s.pool.submit(func(ctx context.Context) Msg {
		chain, err := resolver.Resolve(ctx, creatureID)
		return ChainResolvedMsg{ForID: creatureID, Chain: chain, Err: err}
	})
	if !ok {
		s.logger.Warn().Int("creature_id", creatureID).Msg("fetch queue full; treating chain as terminal")
		s.engine.ApplyChainFailure(creatureID)
		return
	}
	s.inflight++
}

func (s *Session) requestCreature(creatureID int) {
	s.creature, s.creatureErr = nil, nil
	if s.deps.Creatures == nil {
		return
	}
	fetcher := s.deps.Creatures
	ok := s.pool.submit(func(ctx context.Context) Msg {
		c, err := fetcher.FetchCreature(ctx, creatureID)
		return CreatureLoadedMsg{ForID: creatureID, Creature: c, Err: err}
	})
	if !ok {
		s.logger.Warn().Int("creature_id", creatureID).Msg("fetch queue full; skipping creature details")
		return
	}
	s.inflight++
}

// persist writes the current state. Failures are remembered for View and
// returned as *SaveError.
func (s *Session) persist() error {
	st := s.engine.State()
	save := store.UserSave{
		XP:               st.Experience,
		Level:            st.Stage,
		CurrentPokemonID: st.CreatureID,
		Tasks:            s.registry.List(),
	}
	if err := s.deps.Users.Save(s.ctx, s.username, save); err != nil {
		s.logger.Error().Err(err).Msg("save failed")
		s.lastSaveErr = &SaveError{Username: s.username, Err: err}
		return s.lastSaveErr
	}
	s.lastSaveErr = nil
	return nil
}

// record appends to the event log. Failures are logged only.
func (s *Session) record(kind store.EventKind, detail string) {
	if s.deps.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()
	err := s.deps.Events.AppendEvent(ctx, store.Event{
		SessionID: s.id,
		Username:  s.username,
		Kind:      kind,
		Detail:    detail,
		CreatedAt: s.deps.Clock.Now(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("event log write failed")
	}
}
