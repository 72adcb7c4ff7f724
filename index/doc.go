// Package index assigns dense integer indices to keys.
//
// A Mutable table hands out indices 0, 1, 2, ... in first-seen order and is
// safe for concurrent use: lookups of known keys take a shared lock, new
// assignments take the exclusive lock. Once every key is known the table can
// be frozen. Freeze is one-way and returns a Frozen table whose reads take no
// lock at all; asking either side for an unseen key afterwards fails with
// ErrFrozen.
//
//	m := index.NewMutable[keyhash.Tuple]()
//	i, _ := m.IndexOf(keyhash.Tuple{0, 1, 2})
//	f, _ := m.Freeze()
//	j, _ := f.Lookup(keyhash.Tuple{0, 1, 2}) // j == i
//
// Build fills and freezes a table from a key slice with several workers.
// Indices assigned by Build depend on scheduling.
package index
