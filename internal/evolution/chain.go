package evolution

import (
	"fmt"
	"slices"
)

// Node is one creature in an evolution tree as reported by the provider.
// Children keep the provider's order; index 0 is the preferred branch.
type Node struct {
	ID       int
	Children []*Node
}

// Chain is an immutable, flattened evolution tree. It maps each creature id
// to the ordered list of ids it may evolve into next.
type Chain struct {
	root int
	next map[int][]int
}

// Flatten walks the tree depth-first and builds a Chain. It fails with
// ErrMalformedChain when the root is missing, an id is not positive, or an
// id appears more than once (which includes a node revisiting an ancestor).
func Flatten(root *Node) (*Chain, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: missing root", ErrMalformedChain)
	}

	next := make(map[int][]int)
	onPath := make(map[int]bool)

	var walk func(n *Node) error
	walk = func(n *Node) error {
		if n == nil {
			return fmt.Errorf("%w: nil node", ErrMalformedChain)
		}
		if n.ID <= 0 {
			return fmt.Errorf("%w: invalid creature id %d", ErrMalformedChain, n.ID)
		}
		if onPath[n.ID] {
			return fmt.Errorf("%w: cycle at creature %d", ErrMalformedChain, n.ID)
		}
		if _, seen := next[n.ID]; seen {
			return fmt.Errorf("%w: creature %d listed twice", ErrMalformedChain, n.ID)
		}

		onPath[n.ID] = true
		defer delete(onPath, n.ID)

		children := make([]int, 0, len(n.Children))
		for _, c := range n.Children {
			if c == nil {
				return fmt.Errorf("%w: nil child under creature %d", ErrMalformedChain, n.ID)
			}
			children = append(children, c.ID)
		}
		next[n.ID] = children

		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return &Chain{root: root.ID, next: next}, nil
}

// Terminal returns a single-creature chain with no evolutions. It is the
// fallback when the real chain cannot be resolved.
func Terminal(id int) *Chain {
	return &Chain{root: id, next: map[int][]int{id: {}}}
}

// Root returns the base creature of the chain.
func (c *Chain) Root() int {
	return c.root
}

// Contains reports whether id is a member of the chain.
func (c *Chain) Contains(id int) bool {
	if c == nil {
		return false
	}
	_, ok := c.next[id]
	return ok
}

// Successors returns a copy of the ids id may evolve into, in provider order.
func (c *Chain) Successors(id int) []int {
	if c == nil {
		return nil
	}
	return slices.Clone(c.next[id])
}

// Next returns the creature id evolves into. When there are several
// branches, the first listed one always wins. ok is false for terminal
// creatures and ids outside the chain.
func (c *Chain) Next(id int) (next int, ok bool) {
	if c == nil {
		return 0, false
	}
	succ := c.next[id]
	if len(succ) == 0 {
		return 0, false
	}
	return succ[0], true
}

// Len returns the number of creatures in the chain.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.next)
}
