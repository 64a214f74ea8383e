package btree

import (
	"math/rand"
	"sort"
	"testing"
)

func intCmp(a, b int) int { return a - b }

func TestBuildAndFind(t *testing.T) {
	values := []int{5, 3, 8, 1, 9, 2, 7, 4, 6, 0}
	tr := Build(intCmp, values)

	for _, v := range values {
		got, ok := Find(tr, intCmp, v)
		if !ok || got != v {
			t.Fatalf("Find(%d) = %d, %v; want %d, true", v, got, ok, v)
		}
	}
	if _, ok := Find(tr, intCmp, 42); ok {
		t.Fatalf("Find(42) unexpectedly found")
	}
	if got := tr.Len(); got != len(values) {
		t.Fatalf("Len() = %d, want %d", got, len(values))
	}
}

func TestBuildEmpty(t *testing.T) {
	tr := Build(intCmp, nil)
	if !tr.IsEmpty() {
		t.Fatalf("Build(nil) is not empty")
	}
	if tr.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tr.Len())
	}
}

func TestUpdateInsertAndReplace(t *testing.T) {
	tr := Build(intCmp, []int{1, 3, 5, 7, 9})
	tr2 := Update(tr, intCmp, []int{3, 4, 5})

	want := []int{1, 3, 4, 5, 7, 9}
	var got []int
	for v := range SliceAll(tr2, intCmp, true) {
		got = append(got, v)
	}
	if !equalInts(got, want) {
		t.Fatalf("SliceAll after Update = %v, want %v", got, want)
	}

	// Original tree must be unaffected (structural sharing, not mutation).
	var original []int
	for v := range SliceAll(tr, intCmp, true) {
		original = append(original, v)
	}
	if !equalInts(original, []int{1, 3, 5, 7, 9}) {
		t.Fatalf("original tree mutated: %v", original)
	}
}

func TestUpdateFuncMerge(t *testing.T) {
	type counted struct {
		key   int
		count int
	}
	cmp := func(a, b counted) int { return a.key - b.key }
	upd := func(existing *counted, incoming counted) counted {
		if existing == nil {
			return incoming
		}
		return counted{key: existing.key, count: existing.count + incoming.count}
	}

	tr := Build(cmp, []counted{{1, 1}, {2, 1}})
	tr = Update(tr, cmp, []counted{{2, 5}, {3, 1}}, WithUpdateFunc(upd))

	got, ok := Find(tr, cmp, counted{key: 2})
	if !ok || got.count != 6 {
		t.Fatalf("Find(2) = %+v, %v; want count 6", got, ok)
	}
}

func TestBuildLargeAndWellFormed(t *testing.T) {
	const n = 5000
	rng := rand.New(rand.NewSource(1))
	values := rng.Perm(n)

	tr := Build(intCmp, values, WithFanFactor[int](8))
	if tr.Len() != n {
		t.Fatalf("Len() = %d, want %d", tr.Len(), n)
	}
	if violations := CheckWellFormed(tr, intCmp, 8); len(violations) != 0 {
		t.Fatalf("CheckWellFormed found %d violations, first: %v", len(violations), violations[0])
	}

	sort.Ints(values)
	var got []int
	for v := range SliceAll(tr, intCmp, true) {
		got = append(got, v)
	}
	if !equalInts(got, values) {
		t.Fatalf("SliceAll mismatch after sort")
	}
}

func TestUpdateManySmallBatches(t *testing.T) {
	tr := Empty[int]()
	seen := map[int]bool{}
	rng := rand.New(rand.NewSource(2))
	for batch := 0; batch < 200; batch++ {
		var incoming []int
		for i := 0; i < 10; i++ {
			v := rng.Intn(500)
			if !seen[v] {
				incoming = append(incoming, v)
				seen[v] = true
			}
		}
		tr = Update(tr, intCmp, incoming, WithFanFactor[int](4))
	}
	if violations := CheckWellFormed(tr, intCmp, 4); len(violations) != 0 {
		t.Fatalf("CheckWellFormed found %d violations, first: %v", len(violations), violations[0])
	}
	if tr.Len() != len(seen) {
		t.Fatalf("Len() = %d, want %d", tr.Len(), len(seen))
	}
}

func TestQuickMergeOverflowSplitsCorrectly(t *testing.T) {
	// quickMergeLimit(fanFactor) = min(fanFactor, 16) * 2; with
	// fanFactor == 4 that's 8, so the 3 existing and 6 incoming keys each
	// pass the quick-merge size check, while their combined 9 keys exceed
	// the 4 a single leaf root may hold — forcing the fallback path
	// inside tryQuickMerge.
	tr := Build(intCmp, []int{1, 2, 3}, WithFanFactor[int](4))
	tr = Update(tr, intCmp, []int{4, 5, 6, 7, 8, 9}, WithFanFactor[int](4))

	if violations := CheckWellFormed(tr, intCmp, 4); len(violations) != 0 {
		t.Fatalf("CheckWellFormed found %d violations, first: %v", len(violations), violations[0])
	}
	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	var got []int
	for v := range SliceAll(tr, intCmp, true) {
		got = append(got, v)
	}
	if !equalInts(got, want) {
		t.Fatalf("SliceAll = %v, want %v", got, want)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
