package btree

// step tells the update driver what to do after a single call to
// nodeBuilder.update: stepDone means the key was fully consumed at
// this level, stepDescend means retry against the returned child
// level (we found the owning subtree but it wasn't already a node
// boundary), and stepAscend means this level doesn't own the key and
// the driver must retry against the returned parent level. This is
// the Go realization of the three-way {null, child, parent} dispatch
// described for the original implementation.
type step int8

const (
	stepDone step = iota
	stepDescend
	stepAscend
)

// nodeBuilder is one level/stack frame of an in-progress Build or
// Update. Levels form a doubly linked list (parent/child) that is
// lazily extended as tree depth grows during the merge.
type nodeBuilder[V any] struct {
	fanFactor int

	parent, child *nodeBuilder[V]

	// buildKeys/buildChildren buffer the next node (or, transiently, up
	// to one extra overflow node) for this level. Capacity is
	// 1+2*fanFactor keys and 2+2*fanFactor children, matching the
	// original's MAX_KEYS — a level may legitimately accumulate up to
	// 2*fanFactor keys before ensureRoom forces a flush.
	buildKeys     []V
	buildChildren []*node[V]

	// copyFrom is the original node this level mirrors; copyFromKeyPos
	// and copyFromChildPos are cursors into it marking what has already
	// been copied into the build buffers.
	copyFrom         *node[V]
	copyFromKeyPos   int
	copyFromChildPos int

	// upperBound is the strict upper bound of the key range this
	// level's in-progress node owns, supplied by the parent level; the
	// root's upper bound is +∞. hasBound distinguishes an
	// uninitialized level (never reset) from one bound to a real range.
	upperBound bound[V]
	hasBound   bool
}

func newNodeBuilder[V any](fanFactor int) *nodeBuilder[V] {
	maxKeys := 1 + 2*fanFactor
	return &nodeBuilder[V]{
		fanFactor:     fanFactor,
		buildKeys:     make([]V, 0, maxKeys),
		buildChildren: make([]*node[V], 0, maxKeys+1),
	}
}

// reset rebinds this level to mirror copyFrom under the given upper
// bound, clearing any previously buffered keys/children.
func (b *nodeBuilder[V]) reset(copyFrom *node[V], upperBound bound[V]) {
	b.copyFrom = copyFrom
	b.upperBound = upperBound
	b.hasBound = true
	b.buildKeys = b.buildKeys[:0]
	b.buildChildren = b.buildChildren[:0]
	b.copyFromKeyPos = 0
	b.copyFromChildPos = 0
}

// isRoot reports whether this level is the top of the current build
// (no initialized parent) and still fits in a single valid root node.
func (b *nodeBuilder[V]) isRoot() bool {
	return (b.parent == nil || !b.parent.hasBound) && len(b.buildKeys) <= b.fanFactor
}

// ascendToRoot repeatedly ascends, splitting into properly sized nodes
// as it goes, until the current level is a valid root.
func (b *nodeBuilder[V]) ascendToRoot() *nodeBuilder[V] {
	cur := b
	for !cur.isRoot() {
		cur = cur.ascend()
	}
	return cur
}

// toNode materializes the final root node from this level's buffered
// keys/children. Must be called only on the root level once the
// overall build/update has finished.
func (b *nodeBuilder[V]) toNode() *node[V] {
	if len(b.buildKeys) > b.fanFactor || (len(b.buildKeys) == 0 && !b.copyFrom.isLeaf()) {
		panic("btree: invalid root key count in builder")
	}
	return b.buildFromRange(0, len(b.buildKeys), b.copyFrom.isLeaf())
}

// update inserts or replaces key, copying every not-yet-visited key
// that precedes it into this level's buffer. It returns the level the
// driver should retry against next (stepDescend: a child level owning
// the key's subtree; stepAscend: the parent, because this level does
// not own the key's range), or stepDone when the key was fully
// consumed here.
func (b *nodeBuilder[V]) update(key bound[V], cmp Comparator[V], upd UpdateFunc[V]) (*nodeBuilder[V], step) {
	copyFromKeyEnd := b.copyFrom.keyEnd()

	i := find(cmp, key, b.copyFrom.keys, b.copyFromKeyPos, copyFromKeyEnd)
	found := i >= 0
	owns := true
	if !found {
		i = -i - 1
		if i == copyFromKeyEnd && compareBound(cmp, b.upperBound, key) <= 0 {
			owns = false
		}
	}

	if b.copyFrom.isLeaf() {
		b.copyKeys(i)

		if owns {
			if found {
				b.replaceNextKey(key.value, upd)
			} else {
				b.addNewKey(key.value, upd)
			}
			return nil, stepDone
		}
		// Not owned: we've already copied everything in this node
		// (copyKeys(i) with i == keyEnd), fall through to ascend.
	} else {
		if found {
			b.copyKeys(i)
			b.replaceNextKey(key.value, upd)
			b.copyChildren(i + 1)
			return nil, stepDone
		} else if owns {
			b.copyKeys(i)
			b.copyChildren(i)

			newUpperBound := b.upperBound
			if i < copyFromKeyEnd {
				newUpperBound = valueBound(b.copyFrom.keys[i])
			}
			descendInto := b.copyFrom.children[b.copyFromChildPos]
			b.ensureChild().reset(descendInto, newUpperBound)
			return b.child, stepDescend
		} else {
			b.copyKeys(copyFromKeyEnd)
			b.copyChildren(copyFromKeyEnd + 1)
		}
	}

	if key.isPlusInf() && b.isRoot() {
		return nil, stepDone
	}
	return b.ascend(), stepAscend
}

// ascend finishes this level and passes the node(s) it built up to the
// parent, splitting in two when it has overflowed beyond fanFactor
// keys.
func (b *nodeBuilder[V]) ascend() *nodeBuilder[V] {
	parent := b.ensureParent()
	isLeaf := b.copyFrom.isLeaf()
	if len(b.buildKeys) > b.fanFactor {
		mid := len(b.buildKeys) / 2
		parent.addExtraChild(b.buildFromRange(0, mid, isLeaf), b.buildKeys[mid])
		parent.finishChild(b.buildFromRange(mid+1, len(b.buildKeys)-(mid+1), isLeaf))
	} else {
		parent.finishChild(b.buildFromRange(0, len(b.buildKeys), isLeaf))
	}
	return parent
}

// copyKeys bulk-copies keys [copyFromKeyPos, upTo) from copyFrom into
// buildKeys.
func (b *nodeBuilder[V]) copyKeys(upTo int) {
	if b.copyFromKeyPos >= upTo {
		return
	}
	n := upTo - b.copyFromKeyPos
	b.ensureRoom(len(b.buildKeys) + n)
	b.buildKeys = append(b.buildKeys, b.copyFrom.keys[b.copyFromKeyPos:upTo]...)
	b.copyFromKeyPos = upTo
}

// replaceNextKey emits with in place of the next not-yet-copied key
// from copyFrom, applying upd (existing, incoming) when configured.
func (b *nodeBuilder[V]) replaceNextKey(with V, upd UpdateFunc[V]) {
	b.ensureRoom(len(b.buildKeys) + 1)
	if upd != nil {
		existing := b.copyFrom.keys[b.copyFromKeyPos]
		with = upd(&existing, with)
	}
	b.buildKeys = append(b.buildKeys, with)
	b.copyFromKeyPos++
}

// addNewKey inserts key without consuming any key from copyFrom,
// applying the pure-insertion form of upd when configured.
func (b *nodeBuilder[V]) addNewKey(key V, upd UpdateFunc[V]) {
	b.ensureRoom(len(b.buildKeys) + 1)
	if upd != nil {
		key = upd(nil, key)
	}
	b.buildKeys = append(b.buildKeys, key)
}

// copyChildren bulk-copies children [copyFromChildPos, upTo) from
// copyFrom into buildChildren.
func (b *nodeBuilder[V]) copyChildren(upTo int) {
	if b.copyFromChildPos >= upTo {
		return
	}
	b.buildChildren = append(b.buildChildren, b.copyFrom.children[b.copyFromChildPos:upTo]...)
	b.copyFromChildPos = upTo
}

// addExtraChild appends an unexpected child produced by a child level
// that overflowed, together with the key above it.
func (b *nodeBuilder[V]) addExtraChild(child *node[V], keyAbove V) {
	b.ensureRoom(len(b.buildKeys) + 1)
	b.buildKeys = append(b.buildKeys, keyAbove)
	b.buildChildren = append(b.buildChildren, child)
}

// finishChild appends a replacement expected child (no accompanying
// key — it closes the "one more child than keys" accounting) and
// advances the copyFrom child cursor.
func (b *nodeBuilder[V]) finishChild(child *node[V]) {
	b.buildChildren = append(b.buildChildren, child)
	b.copyFromChildPos++
}

// ensureRoom flushes the first fanFactor keys/children up to the
// parent when the next addition would overflow the scratch capacity,
// then shifts the remaining scratch contents down.
func (b *nodeBuilder[V]) ensureRoom(nextBuildKeyPos int) {
	maxKeys := 1 + 2*b.fanFactor
	if nextBuildKeyPos < maxKeys {
		return
	}

	flushUp := b.buildFromRange(0, b.fanFactor, b.copyFrom.isLeaf())
	b.ensureParent().addExtraChild(flushUp, b.buildKeys[b.fanFactor])

	size := b.fanFactor + 1
	remainingKeys := len(b.buildKeys) - size
	copy(b.buildKeys, b.buildKeys[size:])
	b.buildKeys = b.buildKeys[:remainingKeys]

	if len(b.buildChildren) > 0 {
		remainingChildren := len(b.buildChildren) - size
		copy(b.buildChildren, b.buildChildren[size:])
		b.buildChildren = b.buildChildren[:remainingChildren]
	}
}

// buildFromRange materializes an immutable node from the scratch
// buffers' window [offset, offset+keyLength).
func (b *nodeBuilder[V]) buildFromRange(offset, keyLength int, isLeaf bool) *node[V] {
	n := &node[V]{}
	n.keys = append(n.keys, b.buildKeys[offset:offset+keyLength]...)
	if !isLeaf {
		n.children = append(n.children, b.buildChildren[offset:offset+keyLength+1]...)
	}
	return n
}

// ensureParent returns the parent level, creating and/or (re)binding
// it to an as-yet-empty branch under this level's upper bound if it
// isn't already active.
func (b *nodeBuilder[V]) ensureParent() *nodeBuilder[V] {
	if b.parent == nil {
		b.parent = newNodeBuilder[V](b.fanFactor)
		b.parent.child = b
	}
	if !b.parent.hasBound {
		b.parent.reset(&node[V]{children: []*node[V]{nil}}, b.upperBound)
	}
	return b.parent
}

// ensureChild returns the child level, creating it if this is the
// first time this level has needed to descend.
func (b *nodeBuilder[V]) ensureChild() *nodeBuilder[V] {
	if b.child == nil {
		b.child = newNodeBuilder[V](b.fanFactor)
		b.child.parent = b
	}
	return b.child
}
