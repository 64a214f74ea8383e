package btree

import "iter"

// frame is one level of a Cursor's explicit path stack. pos encodes
// "how much of this node's action sequence has been consumed" rather
// than a plain index: for a leaf, pos is a key index in [0, keyEnd];
// for a branch with keyEnd keys and keyEnd+1 children, the action
// sequence is child(0), key(0), child(1), key(1), ..., child(keyEnd),
// so pos in [0, 2*keyEnd+1] with even values naming a pending child
// descent and odd values naming a pending key; a frame whose child is
// on the stack above it holds the odd position just past that child,
// whichever direction pushed it. This lets Next and Prev
// walk the same stack in opposite directions without parent pointers
// on the nodes themselves.
type frame[V any] struct {
	n   *node[V]
	pos int
}

// Cursor is a bidirectional iterator over a bounded range of a Tree's
// values in sorted order. A Cursor is not safe for concurrent use, but
// many Cursors may read the same Tree concurrently, since Trees and
// their nodes are never mutated after construction.
type Cursor[V any] struct {
	cmp                            Comparator[V]
	stack                          []frame[V]
	lower, upper                   bound[V]
	lowerInclusive, upperInclusive bool
	exceeded                       bool // set once Next/Prev has rolled back a past-bound read
}

// RangeOption configures a Cursor constructed by NewCursor.
type RangeOption[V any] func(*rangeConfig[V])

type rangeConfig[V any] struct {
	lower, upper                   bound[V]
	lowerInclusive, upperInclusive bool
	seekEnd                        bool
}

// From sets the range's lower bound, including v itself. Without it,
// the range is unbounded below.
func From[V any](v V) RangeOption[V] {
	return func(c *rangeConfig[V]) { c.lower = valueBound(v); c.lowerInclusive = true }
}

// To sets the range's upper bound, including v itself — the canonical
// closed range of spec §6's slice(tree, lo, hi). Without it, the range
// is unbounded above. Use Lower/Upper directly for a half-open range.
func To[V any](v V) RangeOption[V] {
	return func(c *rangeConfig[V]) { c.upper = valueBound(v); c.upperInclusive = true }
}

// Lower sets the range's lower bound to v, excluding v itself when
// inclusive is false.
func Lower[V any](v V, inclusive bool) RangeOption[V] {
	return func(c *rangeConfig[V]) { c.lower = valueBound(v); c.lowerInclusive = inclusive }
}

// Upper sets the range's upper bound to v, excluding v itself when
// inclusive is false.
func Upper[V any](v V, inclusive bool) RangeOption[V] {
	return func(c *rangeConfig[V]) { c.upper = valueBound(v); c.upperInclusive = inclusive }
}

// SeekToEnd seeds the Cursor positioned after the last in-range value,
// ready for Prev, instead of the default positioning before the first
// in-range value, ready for Next. Either way the resulting Cursor
// supports both Next and Prev once positioned inside the range.
func SeekToEnd[V any]() RangeOption[V] {
	return func(c *rangeConfig[V]) { c.seekEnd = true }
}

// NewCursor returns a Cursor over t's values within the range
// described by opts, seeded at the range's start (or end, with
// SeekToEnd).
func NewCursor[V any](t Tree[V], cmp Comparator[V], opts ...RangeOption[V]) *Cursor[V] {
	cfg := rangeConfig[V]{
		lower: minusInf[V](), upper: plusInf[V](),
		lowerInclusive: true, upperInclusive: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &Cursor[V]{
		cmp: cmp, lower: cfg.lower, upper: cfg.upper,
		lowerInclusive: cfg.lowerInclusive, upperInclusive: cfg.upperInclusive,
	}
	if cfg.seekEnd {
		c.stack = seekFramesBackward(t.root, cmp, cfg.upper, cfg.upperInclusive)
	} else {
		c.stack = seekFramesForward(t.root, cmp, cfg.lower, cfg.lowerInclusive)
	}
	return c
}

// seekFramesForward builds the path stack positioning a Cursor so that
// the first Next() call returns the smallest stored value >= lower
// (or > lower when lowerInclusive is false).
func seekFramesForward[V any](root *node[V], cmp Comparator[V], lower bound[V], lowerInclusive bool) []frame[V] {
	var stack []frame[V]
	n := root
	for {
		keyEnd := n.keyEnd()
		raw := find(cmp, lower, n.keys, 0, keyEnd)
		var i int
		if raw >= 0 {
			i = raw
		} else {
			i = -raw - 1
		}
		if n.isLeaf() {
			pos := i
			if raw >= 0 && !lowerInclusive {
				pos = i + 1
			}
			return append(stack, frame[V]{n: n, pos: pos})
		}
		if raw >= 0 {
			pos := 2*i + 1
			if !lowerInclusive {
				pos = 2*i + 2
			}
			return append(stack, frame[V]{n: n, pos: pos})
		}
		stack = append(stack, frame[V]{n: n, pos: 2*i + 1})
		n = n.children[i]
	}
}

// seekFramesBackward builds the path stack positioning a Cursor so
// that the first Prev() call returns the largest stored value <= upper
// (or < upper when upperInclusive is false).
func seekFramesBackward[V any](root *node[V], cmp Comparator[V], upper bound[V], upperInclusive bool) []frame[V] {
	var stack []frame[V]
	n := root
	for {
		keyEnd := n.keyEnd()
		raw := find(cmp, upper, n.keys, 0, keyEnd)
		var i int
		if raw >= 0 {
			i = raw
		} else {
			i = -raw - 1
		}
		if n.isLeaf() {
			pos := i
			if raw >= 0 && upperInclusive {
				pos = i + 1
			}
			return append(stack, frame[V]{n: n, pos: pos})
		}
		if raw >= 0 {
			pos := 2*i + 1
			if upperInclusive {
				pos = 2*i + 2
			}
			return append(stack, frame[V]{n: n, pos: pos})
		}
		stack = append(stack, frame[V]{n: n, pos: 2*i + 1})
		n = n.children[i]
	}
}

func rightmostPos[V any](n *node[V]) int {
	if n.isLeaf() {
		return n.keyEnd()
	}
	return 2*n.keyEnd() + 1
}

// rawNext advances the stack one step forward with no bound checking.
func (c *Cursor[V]) rawNext() (V, bool) {
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		if top.n.isLeaf() {
			if top.pos < top.n.keyEnd() {
				v := top.n.keys[top.pos]
				top.pos++
				return v, true
			}
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		keyEnd := top.n.keyEnd()
		if top.pos > 2*keyEnd {
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		if top.pos%2 == 0 {
			childIdx := top.pos / 2
			top.pos++
			c.stack = append(c.stack, frame[V]{n: top.n.children[childIdx], pos: 0})
			continue
		}
		keyIdx := (top.pos - 1) / 2
		v := top.n.keys[keyIdx]
		top.pos++
		return v, true
	}
	var zero V
	return zero, false
}

// rawPrev retreats the stack one step backward with no bound checking.
func (c *Cursor[V]) rawPrev() (V, bool) {
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		if top.pos <= 0 {
			c.stack = c.stack[:len(c.stack)-1]
			if len(c.stack) > 0 {
				c.stack[len(c.stack)-1].pos--
			}
			continue
		}
		top.pos--
		if top.n.isLeaf() {
			return top.n.keys[top.pos], true
		}
		if top.pos%2 == 1 {
			keyIdx := (top.pos - 1) / 2
			return top.n.keys[keyIdx], true
		}
		childIdx := top.pos / 2
		child := top.n.children[childIdx]
		top.pos++
		c.stack = append(c.stack, frame[V]{n: child, pos: rightmostPos(child)})
	}
	var zero V
	return zero, false
}

// Next returns the next value in ascending order, or false once the
// range is exhausted. Calling Next after it has returned false keeps
// returning false. After a false at the range's upper bound, Prev walks
// back into the range; after a false because the tree itself has no
// more values, the path stack is empty and Prev returns false too.
func (c *Cursor[V]) Next() (V, bool) {
	if c.exceeded {
		var zero V
		return zero, false
	}
	v, ok := c.rawNext()
	if !ok {
		return v, false
	}
	rel := compareBound(c.cmp, valueBound(v), c.upper)
	if rel > 0 || (rel == 0 && !c.upperInclusive) {
		c.stack[len(c.stack)-1].pos--
		c.exceeded = true
		var zero V
		return zero, false
	}
	return v, true
}

// Prev returns the next value in descending order, or false once the
// range is exhausted at its lower bound.
func (c *Cursor[V]) Prev() (V, bool) {
	c.exceeded = false
	v, ok := c.rawPrev()
	if !ok {
		return v, false
	}
	rel := compareBound(c.cmp, valueBound(v), c.lower)
	if rel < 0 || (rel == 0 && !c.lowerInclusive) {
		c.stack[len(c.stack)-1].pos++
		var zero V
		return zero, false
	}
	return v, true
}

// SliceAll iterates every value of t, ascending when forward is true
// and descending otherwise.
func SliceAll[V any](t Tree[V], cmp Comparator[V], forward bool) iter.Seq[V] {
	return driveCursor(t, cmp, nil, forward)
}

// Slice iterates t's values within the closed range [lo, hi], ascending
// when forward is true and descending otherwise. Use SliceBounds for a
// half-open or otherwise explicitly-bounded range.
func Slice[V any](t Tree[V], cmp Comparator[V], lo, hi V, forward bool) iter.Seq[V] {
	return SliceBounds(t, cmp, lo, true, hi, true, forward)
}

// SliceBounds iterates t's values within [lo, hi] or any combination of
// open/closed ends selected by loInclusive/hiInclusive, ascending when
// forward is true and descending otherwise.
func SliceBounds[V any](t Tree[V], cmp Comparator[V], lo V, loInclusive bool, hi V, hiInclusive bool, forward bool) iter.Seq[V] {
	opts := []RangeOption[V]{Lower(lo, loInclusive), Upper(hi, hiInclusive)}
	return driveCursor(t, cmp, opts, forward)
}

func driveCursor[V any](t Tree[V], cmp Comparator[V], opts []RangeOption[V], forward bool) iter.Seq[V] {
	if !forward {
		opts = append(opts, SeekToEnd[V]())
	}
	return func(yield func(V) bool) {
		c := NewCursor(t, cmp, opts...)
		step := c.Next
		if !forward {
			step = c.Prev
		}
		for {
			v, ok := step()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
