// Package bitset implements a dense bit-vector set of non-negative integers.
//
// A Set owns a growable array of 64-bit blocks. Three invariants hold after
// every operation:
//
//   - blocks[count-1] != 0 whenever count > 0 (no trailing zero block)
//   - every block at index >= count is zero
//   - invariant == blocks[0] ^ blocks[1] ^ ... ^ blocks[count-1]
//
// The XOR-fold invariant is maintained in O(1) per block update and serves as
// a fast rejection test in Equal.
//
// Storage grows by doubling and shrinks by halving once
// 4*count+1 < allocated blocks. Building with -tags bitblockdebug asserts the
// invariants after every mutation.
//
// A Set is not safe for concurrent mutation. Concurrent reads are fine.
package bitset
