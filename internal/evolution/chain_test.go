package evolution

import (
	"errors"
	"slices"
	"testing"
)

func TestFlatten_RecordsChildrenInOrder(t *testing.T) {
	// Eevee-style fan-out plus a linear tail.
	root := &Node{ID: 133, Children: []*Node{
		{ID: 134},
		{ID: 135},
		{ID: 136, Children: []*Node{{ID: 900}}},
	}}

	chain, err := Flatten(root)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if chain.Root() != 133 {
		t.Errorf("root = %d, want 133", chain.Root())
	}
	if got := chain.Successors(133); !slices.Equal(got, []int{134, 135, 136}) {
		t.Errorf("successors(133) = %v", got)
	}
	if got := chain.Successors(136); !slices.Equal(got, []int{900}) {
		t.Errorf("successors(136) = %v", got)
	}
	if got := chain.Successors(134); len(got) != 0 {
		t.Errorf("successors(134) = %v, want empty", got)
	}
	if chain.Len() != 5 {
		t.Errorf("len = %d, want 5", chain.Len())
	}
}

func TestChainNext_PicksFirstBranch(t *testing.T) {
	chain, err := Flatten(&Node{ID: 1, Children: []*Node{{ID: 2}, {ID: 3}}})
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	next, ok := chain.Next(1)
	if !ok || next != 2 {
		t.Fatalf("Next(1) = %d, %v; want 2, true", next, ok)
	}
	if _, ok := chain.Next(2); ok {
		t.Error("Next(2) should be terminal")
	}
	if _, ok := chain.Next(42); ok {
		t.Error("Next(42) should report not found")
	}
}

func TestChainSuccessors_ReturnsCopy(t *testing.T) {
	chain, _ := Flatten(&Node{ID: 1, Children: []*Node{{ID: 2}, {ID: 3}}})
	s := chain.Successors(1)
	s[0] = 99
	if next, _ := chain.Next(1); next != 2 {
		t.Fatalf("chain mutated through Successors: Next(1) = %d", next)
	}
}

func TestFlatten_Malformed(t *testing.T) {
	cyclic := &Node{ID: 1}
	mid := &Node{ID: 2, Children: []*Node{cyclic}}
	cyclic.Children = []*Node{mid}

	tests := []struct {
		name string
		root *Node
	}{
		{"nil root", nil},
		{"cycle", cyclic},
		{"ancestor id repeated", &Node{ID: 1, Children: []*Node{{ID: 2, Children: []*Node{{ID: 1}}}}}},
		{"duplicate sibling", &Node{ID: 1, Children: []*Node{{ID: 2}, {ID: 2}}}},
		{"non-positive id", &Node{ID: 0}},
		{"nil child", &Node{ID: 1, Children: []*Node{nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Flatten(tt.root)
			if !errors.Is(err, ErrMalformedChain) {
				t.Fatalf("error = %v, want ErrMalformedChain", err)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	chain := Terminal(25)
	if !chain.Contains(25) {
		t.Fatal("terminal chain should contain its creature")
	}
	if _, ok := chain.Next(25); ok {
		t.Fatal("terminal chain should have no successors")
	}
}

func TestNilChain(t *testing.T) {
	var chain *Chain
	if chain.Contains(1) || chain.Len() != 0 || chain.Successors(1) != nil {
		t.Fatal("nil chain should be empty")
	}
	if _, ok := chain.Next(1); ok {
		t.Fatal("nil chain should be terminal")
	}
}
