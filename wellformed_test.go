package btree

import "testing"

func TestCheckWellFormedDetectsOutOfOrderKeys(t *testing.T) {
	n := &node[int]{keys: []int{5, 3, 8}}
	tr := Tree[int]{root: n}

	violations := CheckWellFormed(tr, intCmp, 4)
	if len(violations) == 0 {
		t.Fatalf("expected violations for out-of-order keys, got none")
	}
}

func TestCheckWellFormedDetectsChildCountMismatch(t *testing.T) {
	leaf := &node[int]{keys: []int{1, 2}}
	n := &node[int]{keys: []int{5}, children: []*node[int]{leaf}} // missing second child
	tr := Tree[int]{root: n}

	violations := CheckWellFormed(tr, intCmp, 4)
	if len(violations) == 0 {
		t.Fatalf("expected violations for missing child, got none")
	}
}

func TestCheckWellFormedAcceptsBuiltTree(t *testing.T) {
	tr := Build(intCmp, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, WithFanFactor[int](4))
	if violations := CheckWellFormed(tr, intCmp, 4); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
}

func TestCheckWellFormedEmptyTree(t *testing.T) {
	tr := Empty[int]()
	if violations := CheckWellFormed(tr, intCmp, 4); len(violations) != 0 {
		t.Fatalf("unexpected violations on empty tree: %v", violations)
	}
}
