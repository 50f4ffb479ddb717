package progression

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/todomon/internal/evolution"
)

// FallbackCreatureID is assigned when the roster has no candidates.
const FallbackCreatureID = 1

// ErrInvalidAmount is returned for non-positive experience gains.
var ErrInvalidAmount = errors.New("experience amount must be positive")

// Roster supplies base creatures eligible for random reassignment.
type Roster interface {
	Candidates() []int
}

// ChainStatus describes whether the engine holds a usable evolution chain.
type ChainStatus int

const (
	ChainPending     ChainStatus = iota // Resolution requested, no result yet
	ChainReady                          // Chain resolved from the provider
	ChainUnavailable                    // Resolution failed; treated as terminal
)

func (s ChainStatus) String() string {
	switch s {
	case ChainPending:
		return "pending"
	case ChainReady:
		return "ready"
	case ChainUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("ChainStatus(%d)", int(s))
	}
}

// OutcomeKind identifies what a GainExperience call did.
type OutcomeKind int

const (
	OutcomeNone       OutcomeKind = iota // Experience added, no stage change
	OutcomeEvolved                       // Advanced and moved to the next creature in the chain
	OutcomeReassigned                    // Chain exhausted; a new base creature was drawn
	OutcomeDeferred                      // Advanced a stage; evolve or reassign waits for the chain
)

// Outcome reports the result of an experience gain.
type Outcome struct {
	Kind       OutcomeKind
	From       int // creature id before the call
	To         int // creature id after the call
	StageAfter int

	// ResolveFor is set when the caller must resolve a chain for the new
	// creature and hand it back through ApplyChain.
	ResolveFor int
}

// String names the outcome kind for logs.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "none"
	case OutcomeEvolved:
		return "evolved"
	case OutcomeReassigned:
		return "reassigned"
	case OutcomeDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// State is a value snapshot of the engine.
type State struct {
	Stage       int
	Experience  int
	CreatureID  int
	Threshold   int
	ChainStatus ChainStatus
}

// Engine owns the progression state of one session. It is not safe for
// concurrent use; callers serialize access on a single goroutine.
type Engine struct {
	stage      int
	experience int
	creatureID int
	chain      *evolution.Chain
	status     ChainStatus

	// deferred is set when a stage advance happened while the chain was
	// pending. The chain result decides between evolving and reassigning.
	deferred bool
	settled  *Outcome

	roster Roster
	rng    *rand.Rand
}

// NewEngine creates an engine at stage 1 with no experience for the given
// creature. A nil rng uses a randomly seeded source.
func NewEngine(creatureID int, roster Roster, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e := &Engine{roster: roster, rng: rng}
	e.Restore(1, 0, creatureID)
	return e
}

// Restore replaces the progression values, normalizing them so the
// invariants hold. The chain is cleared and must be resolved again, and any
// deferred advance is dropped.
func (e *Engine) Restore(stage, experience, creatureID int) {
	if stage < 1 {
		stage = 1
	}
	if creatureID < 1 {
		creatureID = FallbackCreatureID
	}
	if experience < 0 {
		experience = 0
	}
	if t := ThresholdFor(stage); experience >= t {
		experience = t - 1
	}
	e.stage = stage
	e.experience = experience
	e.creatureID = creatureID
	e.chain = nil
	e.status = ChainPending
	e.deferred = false
	e.settled = nil
}

// State returns the current progression values.
func (e *Engine) State() State {
	return State{
		Stage:       e.stage,
		Experience:  e.experience,
		CreatureID:  e.creatureID,
		Threshold:   ThresholdFor(e.stage),
		ChainStatus: e.status,
	}
}

// Chain returns the chain currently held, or nil while pending.
func (e *Engine) Chain() *evolution.Chain {
	return e.chain
}

// GainExperience adds amount and processes at most one stage advance.
//
// While the chain is pending the stage still advances, but the creature is
// left alone and the outcome is OutcomeDeferred. The evolution or
// reassignment happens in ApplyChain or ApplyChainFailure and is reported
// through TakeSettled.
func (e *Engine) GainExperience(amount int) (Outcome, error) {
	if amount <= 0 {
		return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	from := e.creatureID
	e.experience += amount

	threshold := ThresholdFor(e.stage)
	if e.experience < threshold {
		return Outcome{Kind: OutcomeNone, From: from, To: from, StageAfter: e.stage}, nil
	}
	if e.deferred {
		// Only one advance may wait on the chain.
		e.experience = threshold - 1
		return Outcome{Kind: OutcomeNone, From: from, To: from, StageAfter: e.stage}, nil
	}

	e.experience -= threshold
	e.stage++
	// One advance per call: whatever would carry into a second advance is lost.
	if next := ThresholdFor(e.stage); e.experience >= next {
		e.experience = next - 1
	}

	if e.status == ChainPending {
		e.deferred = true
		return Outcome{Kind: OutcomeDeferred, From: from, To: from, StageAfter: e.stage}, nil
	}
	return e.advance(), nil
}

// Deferred reports whether a stage advance is waiting for the chain.
func (e *Engine) Deferred() bool {
	return e.deferred
}

// TakeSettled returns the outcome of a deferred advance that the last
// ApplyChain or ApplyChainFailure completed, once.
func (e *Engine) TakeSettled() (Outcome, bool) {
	if e.settled == nil {
		return Outcome{}, false
	}
	out := *e.settled
	e.settled = nil
	return out, true
}

// advance moves to the next creature in the chain, or draws a new base
// creature when the current one is terminal. The stage has already been
// incremented.
func (e *Engine) advance() Outcome {
	from := e.creatureID
	if to, ok := e.chain.Next(from); ok {
		e.creatureID = to
		return Outcome{Kind: OutcomeEvolved, From: from, To: to, StageAfter: e.stage}
	}

	to := e.pickBase()
	e.stage = 1
	e.experience = 0
	e.creatureID = to
	e.chain = nil
	e.status = ChainPending
	return Outcome{Kind: OutcomeReassigned, From: from, To: to, StageAfter: 1, ResolveFor: to}
}

func (e *Engine) settleDeferred() {
	if !e.deferred {
		return
	}
	e.deferred = false
	out := e.advance()
	e.settled = &out
}

// ApplyChain installs a resolved chain and completes a deferred advance.
// The result is discarded (false) when it was requested for a creature other
// than the current one or does not contain the current creature.
func (e *Engine) ApplyChain(forID int, chain *evolution.Chain) bool {
	if forID != e.creatureID || !chain.Contains(e.creatureID) {
		return false
	}
	e.chain = chain
	e.status = ChainReady
	e.settleDeferred()
	return true
}

// ApplyChainFailure marks the current creature terminal after a failed
// resolution, so a deferred advance reassigns. Stale failures are ignored.
func (e *Engine) ApplyChainFailure(forID int) bool {
	if forID != e.creatureID {
		return false
	}
	e.chain = evolution.Terminal(e.creatureID)
	e.status = ChainUnavailable
	e.settleDeferred()
	return true
}

func (e *Engine) pickBase() int {
	return PickBase(e.roster, e.rng)
}

// PickBase draws a uniformly random candidate from roster, or
// FallbackCreatureID when the roster is nil or empty.
func PickBase(roster Roster, rng *rand.Rand) int {
	if roster == nil {
		return FallbackCreatureID
	}
	ids := roster.Candidates()
	if len(ids) == 0 {
		return FallbackCreatureID
	}
	if rng == nil {
		return ids[rand.IntN(len(ids))]
	}
	return ids[rng.IntN(len(ids))]
}
