// Package btree implements an immutable, persistent B-Tree used as an
// ordered in-memory collection of comparable values.
//
// Every mutation — a bulk Build or a bulk Update — returns a new Tree
// whose root structurally shares every subtree untouched by the
// mutation with its predecessor. Published trees are safe for
// concurrent, lock-free reads (Find and cursors); a Tree value itself
// is never modified in place after Build or Update returns it.
//
// The package deliberately has no notion of deletion, on-disk
// representation, or durability — it is a pure, in-memory ordering
// structure intended as a building block for larger stores that need
// cheap snapshotting and stable concurrent reads against a sorted set.
package btree
