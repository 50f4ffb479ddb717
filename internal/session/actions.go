package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/todomon/internal/pokeapi"
	"github.com/abhisek/todomon/internal/progression"
	"github.com/abhisek/todomon/internal/store"
	"github.com/abhisek/todomon/internal/tasks"
)

// ErrClosed is returned by actions on a closed session.
var ErrClosed = errors.New("session closed")

// CompleteResult describes what completing a task did.
type CompleteResult struct {
	Index   int
	Award   int
	Outcome progression.Outcome

	// ResetAt is when the task becomes available again; zero for one-off
	// and dated tasks.
	ResetAt time.Time

	// SaveErr is non-nil when the completion could not be persisted. The
	// completion still stands.
	SaveErr error
}

// AddTask appends a task and persists it. On a *SaveError the task was
// still added and the returned index is valid.
func (s *Session) AddTask(name string, recurring bool, due *tasks.Date) (int, error) {
	if s.closed {
		return -1, ErrClosed
	}
	today := tasks.DateOf(s.deps.Clock.Now())
	index, err := s.registry.Add(name, recurring, due, today)
	if err != nil {
		return -1, err
	}

	t, _ := s.registry.Get(index)
	s.record(store.EventTaskAdded, t.Name)
	s.logger.Info().Int("task", index).Str("name", t.Name).Bool("recurring", recurring).Msg("task added")
	return index, s.persist()
}

// CompleteTask marks the task at index complete, awards experience and
// persists the result. Persistent tasks get a reset at the next midnight.
//
// When the creature's chain is still being looked up the outcome is
// progression.OutcomeDeferred; the evolution or reassignment is applied by
// Handle once the chain arrives and reported through TakeAdvances.
func (s *Session) CompleteTask(index int) (CompleteResult, error) {
	if s.closed {
		return CompleteResult{}, ErrClosed
	}
	award, err := s.registry.Complete(index)
	if err != nil {
		return CompleteResult{}, err
	}
	t, _ := s.registry.Get(index)

	outcome, err := s.engine.GainExperience(award)
	if err != nil {
		return CompleteResult{}, err
	}
	res := CompleteResult{Index: index, Award: award, Outcome: outcome}

	s.record(store.EventTaskCompleted, fmt.Sprintf("%s (+%d)", t.Name, award))
	s.applyOutcome(outcome)

	if t.Persistent() {
		res.ResetAt = s.resetter.Schedule(index)
	}
	res.SaveErr = s.persist()
	return res, nil
}

// applyOutcome records an advance and starts the lookups it needs.
func (s *Session) applyOutcome(outcome progression.Outcome) {
	switch outcome.Kind {
	case progression.OutcomeEvolved:
		s.record(store.EventEvolved, fmt.Sprintf("%d -> %d", outcome.From, outcome.To))
		s.logger.Info().Int("from", outcome.From).Int("to", outcome.To).Int("stage", outcome.StageAfter).Msg("evolved")
		s.requestCreature(outcome.To)
	case progression.OutcomeReassigned:
		s.record(store.EventReassigned, fmt.Sprintf("%d -> %d", outcome.From, outcome.To))
		s.logger.Info().Int("from", outcome.From).Int("to", outcome.To).Msg("chain complete, new creature assigned")
		s.requestChain(outcome.ResolveFor)
		s.requestCreature(outcome.ResolveFor)
	case progression.OutcomeDeferred:
		s.logger.Info().Int("creature_id", outcome.From).Int("stage", outcome.StageAfter).Msg("stage advanced, waiting for evolution chain")
	}
}

// settleAdvance applies an advance that was waiting on the chain, if the
// last chain result completed one.
func (s *Session) settleAdvance() error {
	out, ok := s.engine.TakeSettled()
	if !ok {
		return nil
	}
	s.settled = append(s.settled, out)
	s.applyOutcome(out)
	return s.persist()
}

// TakeAdvances returns the outcomes of deferred advances completed since the
// last call, oldest first.
func (s *Session) TakeAdvances() []progression.Outcome {
	out := s.settled
	s.settled = nil
	return out
}

// applyReset reverts a completed persistent task and arms the next reset.
func (s *Session) applyReset(index int) error {
	t, err := s.registry.Get(index)
	if err != nil || !t.Persistent() {
		return nil
	}
	s.resetter.Schedule(index)
	if !s.registry.Reset(index) {
		return nil
	}
	s.record(store.EventTaskReset, t.Name)
	s.logger.Info().Int("task", index).Str("name", t.Name).Msg("daily reset")
	return s.persist()
}

// View is a read-only snapshot for display.
type View struct {
	Username    string
	Stage       int
	Experience  int
	Threshold   int
	Progress    float64
	CreatureID  int
	Creature    *pokeapi.Creature // nil until loaded
	CreatureErr error
	ChainStatus progression.ChainStatus
	Tasks       []tasks.Task
	SaveErr     error
}

// CreatureName returns the best available name for the current creature.
func (v View) CreatureName() string {
	if v.Creature != nil {
		return v.Creature.Name()
	}
	return fmt.Sprintf("#%d", v.CreatureID)
}

// View returns the current state.
func (s *Session) View() View {
	st := s.engine.State()
	return View{
		Username:    s.username,
		Stage:       st.Stage,
		Experience:  st.Experience,
		Threshold:   st.Threshold,
		Progress:    progression.Progress(st.Stage, st.Experience),
		CreatureID:  st.CreatureID,
		Creature:    s.creature,
		CreatureErr: s.creatureErr,
		ChainStatus: st.ChainStatus,
		Tasks:       s.registry.List(),
		SaveErr:     s.lastSaveErr,
	}
}

// ResetScheduled reports whether a daily reset is armed for the task.
func (s *Session) ResetScheduled(index int) bool {
	return s.resetter.Scheduled(index)
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.deps.Clock.Now()
}
