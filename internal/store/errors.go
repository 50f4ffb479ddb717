package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates there is no save for the user.
	ErrNotFound = errors.New("user not found")

	// ErrCorrupt indicates a save exists but cannot be trusted.
	ErrCorrupt = errors.New("corrupt save data")

	// ErrInvalidUsername indicates a username that cannot key a save.
	ErrInvalidUsername = errors.New("invalid username")
)

// IOError reports a storage read or write failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
