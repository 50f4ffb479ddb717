package session

import (
	"github.com/abhisek/todomon/internal/evolution"
	"github.com/abhisek/todomon/internal/pokeapi"
)

// Msg is a result delivered on Session.Updates. Values are one of the
// *Msg types below and must be passed back to Session.Handle on the
// goroutine that owns the session.
type Msg any

// ChainResolvedMsg carries an evolution chain lookup for ForID.
type ChainResolvedMsg struct {
	ForID int
	Chain *evolution.Chain
	Err   error
}

// CreatureLoadedMsg carries creature details for ForID.
type CreatureLoadedMsg struct {
	ForID    int
	Creature *pokeapi.Creature
	Err      error
}

// ResetDueMsg reports that the daily reset for the task at Index is due.
type ResetDueMsg struct {
	Index int
}
