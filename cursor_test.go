package btree

import (
	"math/rand"
	"testing"
)

func TestCursorForwardRange(t *testing.T) {
	values := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		values = append(values, i*2) // 0, 2, 4, ..., 198
	}
	tr := Build(intCmp, values, WithFanFactor[int](4))

	var got []int
	for v := range Slice(tr, intCmp, 10, 30, true) {
		got = append(got, v)
	}
	want := []int{10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30}
	if !equalInts(got, want) {
		t.Fatalf("Slice(10,30,true) = %v, want %v", got, want)
	}
}

func TestCursorReverseRange(t *testing.T) {
	values := make([]int, 0, 100)
	for i := 0; i < 100; i++ {
		values = append(values, i*2) // 0, 2, 4, ..., 198
	}
	tr := Build(intCmp, values, WithFanFactor[int](4))

	var got []int
	for v := range Slice(tr, intCmp, 10, 30, false) {
		got = append(got, v)
	}
	want := []int{30, 28, 26, 24, 22, 20, 18, 16, 14, 12, 10}
	if !equalInts(got, want) {
		t.Fatalf("Slice(10,30,false) = %v, want %v", got, want)
	}
}

func TestCursorHalfOpenRange(t *testing.T) {
	tr := Build(intCmp, []int{10, 20, 30, 40, 50})

	var got []int
	for v := range SliceBounds(tr, intCmp, 20, true, 40, false, true) {
		got = append(got, v)
	}
	want := []int{20, 30}
	if !equalInts(got, want) {
		t.Fatalf("SliceBounds[20,40) = %v, want %v", got, want)
	}

	got = nil
	for v := range SliceBounds(tr, intCmp, 20, false, 40, true, true) {
		got = append(got, v)
	}
	want = []int{30, 40}
	if !equalInts(got, want) {
		t.Fatalf("SliceBounds(20,40] = %v, want %v", got, want)
	}
}

func TestCursorSliceAllReverse(t *testing.T) {
	tr := Build(intCmp, []int{1, 2, 3, 4, 5})

	var got []int
	for v := range SliceAll(tr, intCmp, false) {
		got = append(got, v)
	}
	want := []int{5, 4, 3, 2, 1}
	if !equalInts(got, want) {
		t.Fatalf("SliceAll(false) = %v, want %v", got, want)
	}
}

func TestCursorBidirectional(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tr := Build(intCmp, values, WithFanFactor[int](2))

	c := NewCursor(tr, intCmp)
	var forward []int
	for i := 0; i < 5; i++ {
		v, ok := c.Next()
		if !ok {
			t.Fatalf("Next() exhausted early at i=%d", i)
		}
		forward = append(forward, v)
	}
	if !equalInts(forward, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("forward = %v", forward)
	}

	var backward []int
	for i := 0; i < 3; i++ {
		v, ok := c.Prev()
		if !ok {
			t.Fatalf("Prev() exhausted early at i=%d", i)
		}
		backward = append(backward, v)
	}
	if !equalInts(backward, []int{5, 4, 3}) {
		t.Fatalf("backward = %v, want [5 4 3]", backward)
	}

	v, ok := c.Next()
	if !ok || v != 3 {
		t.Fatalf("Next() after backing up = %v, %v; want 3, true", v, ok)
	}
}

func TestCursorSeekToEnd(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tr := Build(intCmp, values, WithFanFactor[int](2))

	c := NewCursor(tr, intCmp, To(8), SeekToEnd[int]())
	var got []int
	for {
		v, ok := c.Prev()
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []int{8, 7, 6, 5, 4, 3, 2, 1}
	if !equalInts(got, want) {
		t.Fatalf("SeekToEnd walk = %v, want %v", got, want)
	}
}

func TestCursorEmptyRange(t *testing.T) {
	tr := Build(intCmp, []int{1, 2, 3})
	c := NewCursor(tr, intCmp, From(10), To(20))
	if _, ok := c.Next(); ok {
		t.Fatalf("Next() on empty range returned a value")
	}
}

func TestCursorAgainstRandomTree(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 300
	values := rng.Perm(n)
	tr := Build(intCmp, values, WithFanFactor[int](4))

	var got []int
	for v := range SliceBounds(tr, intCmp, 50, true, 150, false, true) {
		got = append(got, v)
	}
	var want []int
	for i := 50; i < 150; i++ {
		want = append(want, i)
	}
	if !equalInts(got, want) {
		t.Fatalf("SliceBounds[50,150) len=%d want len=%d", len(got), len(want))
	}

	got = nil
	for v := range SliceBounds(tr, intCmp, 50, true, 150, true, false) {
		got = append(got, v)
	}
	want = nil
	for i := 150; i >= 50; i-- {
		want = append(want, i)
	}
	if !equalInts(got, want) {
		t.Fatalf("SliceBounds[50,150],false len=%d want len=%d", len(got), len(want))
	}
}
