package pokeapi

import (
	"errors"
	"fmt"
	"net"
)

// ProviderError reports any failure talking to the creature database:
// transport errors, timeouts, non-2xx responses, and malformed payloads.
type ProviderError struct {
	Op         string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pokeapi %s: HTTP %d for %s", e.Op, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("pokeapi %s: %s: %v", e.Op, e.URL, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout.
func (e *ProviderError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// IsProviderError reports whether err is or wraps a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
