package btree

import (
	"log/slog"
	"slices"
)

// quickMergeLimit mirrors the original's QUICK_MERGE_LIMIT constant: a
// small enough combined key count that two sorted runs can be merged
// directly into one leaf array without involving the nodeBuilder
// machinery at all.
func quickMergeLimit(fanFactor int) int {
	limit := fanFactor
	if limit > 16 {
		limit = 16
	}
	return limit * 2
}

// ensureSorted returns incoming sorted under cmp, copying first unless
// the caller already asserted sortedness via WithSorted. Sorting is
// stable, so values that compare equal under cmp keep the caller's
// original relative order; ensureSorted does not remove them.
func ensureSorted[V any](cmp Comparator[V], incoming []V, alreadySorted bool) []V {
	if alreadySorted {
		return incoming
	}
	sorted := slices.Clone(incoming)
	slices.SortStableFunc(sorted, cmp)
	return sorted
}

// tryQuickMerge attempts the fast path for a single-leaf existing tree
// merged with a small incoming run, returning ok == false when either
// side is too large or the caller's earlyTerminate predicate fires.
//
// When the merged run holds more than fanFactor keys, the most a single
// leaf root may hold, it falls back to the general merge driver over
// the already-combined run instead of returning an oversized leaf.
// Each side may hold up to quickMergeLimit(fanFactor) keys, so the
// fallback is reachable at every fan factor.
func tryQuickMerge[V any](existingRoot *node[V], cmp Comparator[V], incoming []V, cfg updateConfig[V]) (*node[V], bool) {
	if !existingRoot.isLeaf() {
		return nil, false
	}
	limit := quickMergeLimit(cfg.fanFactor)
	if existingRoot.keyEnd() > limit || len(incoming) > limit {
		return nil, false
	}
	if cfg.earlyTerminate != nil && cfg.earlyTerminate() {
		return nil, false
	}

	existingKeys := existingRoot.keys
	merged := make([]V, 0, len(existingKeys)+len(incoming))
	ei, ii := 0, 0
	for ei < len(existingKeys) && ii < len(incoming) {
		switch c := cmp(existingKeys[ei], incoming[ii]); {
		case c < 0:
			merged = append(merged, existingKeys[ei])
			ei++
		case c > 0:
			v := incoming[ii]
			if cfg.replaceF != nil {
				v = cfg.replaceF(nil, v)
			}
			merged = append(merged, v)
			ii++
		default:
			existing := existingKeys[ei]
			v := incoming[ii]
			if cfg.replaceF != nil {
				v = cfg.replaceF(&existing, v)
			}
			merged = append(merged, v)
			ei++
			ii++
		}
	}
	merged = append(merged, existingKeys[ei:]...)
	for ; ii < len(incoming); ii++ {
		v := incoming[ii]
		if cfg.replaceF != nil {
			v = cfg.replaceF(nil, v)
		}
		merged = append(merged, v)
	}

	if len(merged) <= cfg.fanFactor {
		return &node[V]{keys: merged}, true
	}
	log.Debug("quick merge overflowed node capacity, falling back to runMerge",
		"mergedCount", len(merged), "fanFactor", cfg.fanFactor)
	fallback := runMerge(merged, cmp, emptyNode[V](), updateConfig[V]{fanFactor: cfg.fanFactor, pool: cfg.pool})
	return fallback, true
}

// runMerge drives sorted through the nodeBuilder chain rooted at
// existingRoot, returning the resulting node. sorted must already be
// sorted (and free of comparator-duplicates) under cmp; every key not
// already present in existingRoot is inserted, every key that matches
// one already present replaces it (through cfg.replaceF when set).
//
// This is the Go shape of the original implementation's build()/
// update() driver loop: repeatedly call nodeBuilder.update for the
// current key, descending or ascending the chain as directed, until it
// reports the key consumed; then move to the next key without
// resetting back to the root, since sorted input guarantees the next
// key is never to the left of the current position. A final pass with
// the +∞ sentinel flushes every level's remaining tail up to a valid
// root.
func runMerge[V any](sorted []V, cmp Comparator[V], existingRoot *node[V], cfg updateConfig[V]) *node[V] {
	var top *nodeBuilder[V]
	if cfg.pool != nil {
		top = cfg.pool.get(cfg.fanFactor)
	} else {
		top = newNodeBuilder[V](cfg.fanFactor)
	}
	top.reset(existingRoot, plusInf[V]())

	cur := top
	depth := 1
	debugging := log.Enabled(nil, slog.LevelDebug)
	for _, v := range sorted {
		key := valueBound(v)
		for {
			next, s := cur.update(key, cmp, cfg.replaceF)
			if s == stepDone {
				break
			}
			cur = next
			if s == stepAscend {
				depth--
			} else {
				depth++
			}
			if debugging {
				log.Debug("descending builder chain", "step", s, "depth", depth)
			}
			if depth > MaxDepth(cfg.fanFactor) || depth < 0 {
				panic(newError(ErrDepthOverflow, depth))
			}
		}
	}

	for {
		next, s := cur.update(plusInf[V](), cmp, nil)
		if s == stepDone {
			break
		}
		cur = next
	}

	root := cur.ascendToRoot()
	result := root.toNode()
	if cfg.pool != nil {
		cfg.pool.put(root)
	}
	return result
}

// Build constructs a new Tree from values in a single pass, equivalent
// to Update against Empty but avoiding the empty-tree special case on
// every call. values need not be pre-sorted unless WithSorted(true) is
// supplied.
func Build[V any](cmp Comparator[V], values []V, opts ...UpdateOption[V]) Tree[V] {
	cfg := resolveConfig(opts)
	sorted := ensureSorted(cmp, values, cfg.sorted)
	log.Info("building tree", "count", len(values), "fanFactor", cfg.fanFactor)
	return Tree[V]{root: runMerge(sorted, cmp, emptyNode[V](), cfg)}
}

// Update returns a new Tree reflecting t with every value in incoming
// inserted or, for a value comparing equal under cmp to one already
// present, merged via WithUpdateFunc (defaulting to outright
// replacement). t itself is never mutated; unaffected subtrees are
// shared between t and the result. incoming need not be pre-sorted
// unless WithSorted(true) is supplied.
func Update[V any](t Tree[V], cmp Comparator[V], incoming []V, opts ...UpdateOption[V]) Tree[V] {
	if len(incoming) == 0 {
		return t
	}
	cfg := resolveConfig(opts)
	sorted := ensureSorted(cmp, incoming, cfg.sorted)
	log.Info("updating tree", "incomingCount", len(incoming), "existingCount", t.Len(), "fanFactor", cfg.fanFactor)

	if t.IsEmpty() {
		return Tree[V]{root: runMerge(sorted, cmp, emptyNode[V](), cfg)}
	}
	if root, ok := tryQuickMerge(t.root, cmp, sorted, cfg); ok {
		return Tree[V]{root: root}
	}
	return Tree[V]{root: runMerge(sorted, cmp, t.root, cfg)}
}
