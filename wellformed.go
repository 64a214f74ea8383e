package btree

import "fmt"

// Violation describes one well-formedness invariant broken by a Tree,
// identified by a slash-separated path of child indices from the root.
type Violation struct {
	Path   string
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Detail)
}

// IsWellFormed reports whether t satisfies every structural invariant
// for the given comparator and fan factor.
func IsWellFormed[V any](t Tree[V], cmp Comparator[V], fanFactor int) bool {
	return len(CheckWellFormed(t, cmp, fanFactor)) == 0
}

// CheckWellFormed walks t and returns every invariant violation found,
// or nil if t is well-formed. It checks: keys strictly increasing
// within each node; every key within the range bequeathed by its
// ancestors; every non-root node's key count within [fanFactor/2,
// fanFactor]; every branch node having exactly one more child than
// keys; and every leaf at the same depth.
func CheckWellFormed[V any](t Tree[V], cmp Comparator[V], fanFactor int) []Violation {
	var out []Violation
	checkNode(t.root, cmp, fanFactor, true, minusInf[V](), plusInf[V](), "root", &out)
	return out
}

func checkNode[V any](n *node[V], cmp Comparator[V], fanFactor int, isRoot bool, lower, upper bound[V], path string, out *[]Violation) int {
	keyEnd := n.keyEnd()

	for i := 1; i < keyEnd; i++ {
		if cmp(n.keys[i-1], n.keys[i]) >= 0 {
			*out = append(*out, Violation{path, fmt.Sprintf("keys not strictly increasing at index %d", i)})
		}
	}

	for i := 0; i < keyEnd; i++ {
		kb := valueBound(n.keys[i])
		if compareBound(cmp, kb, lower) <= 0 || compareBound(cmp, kb, upper) >= 0 {
			*out = append(*out, Violation{path, fmt.Sprintf("key at index %d falls outside its ancestors' bound", i)})
		}
	}

	if !isRoot {
		minKeys := fanFactor / 2
		if keyEnd < minKeys || keyEnd > fanFactor {
			*out = append(*out, Violation{path, fmt.Sprintf("key count %d outside [%d,%d]", keyEnd, minKeys, fanFactor)})
		}
	} else if keyEnd > fanFactor {
		*out = append(*out, Violation{path, fmt.Sprintf("root key count %d exceeds fan factor %d", keyEnd, fanFactor)})
	}

	if n.isLeaf() {
		return 0
	}

	if len(n.children) != keyEnd+1 {
		*out = append(*out, Violation{path, fmt.Sprintf("branch has %d children, want %d", len(n.children), keyEnd+1)})
	}

	depth := -1
	for i, child := range n.children {
		childLower := lower
		if i > 0 {
			childLower = valueBound(n.keys[i-1])
		}
		childUpper := upper
		if i < keyEnd {
			childUpper = valueBound(n.keys[i])
		}
		d := checkNode(child, cmp, fanFactor, false, childLower, childUpper, fmt.Sprintf("%s/%d", path, i), out)
		if depth == -1 {
			depth = d
		} else if d != depth {
			*out = append(*out, Violation{path, "children are not all the same height"})
		}
	}
	if depth == -1 {
		return 0
	}
	return depth + 1
}
