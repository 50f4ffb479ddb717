package evolution

import "errors"

// ErrMalformedChain indicates the provider returned an evolution tree that
// violates the expected shape: a missing root, a cycle, a duplicated id, or
// a tree that does not contain the requested creature.
var ErrMalformedChain = errors.New("malformed evolution chain")
