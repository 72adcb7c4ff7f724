// Package testutil provides testing utilities for bitblock.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, goroutine-safe RNG and generators for dense,
// sparse and clustered element lists.
//
// # Random Sets
//
//	rng := testutil.NewRNG(seed)
//	dense := rng.Elements(500, 1024)          // uniform in [0, 1024)
//	sparse := rng.SparseElements(20, 1<<24)   // few elements, huge universe
//	keys := rng.Perm(100)                     // distinct keys 0..99, shuffled
package testutil
