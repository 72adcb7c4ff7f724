// Package hashtable implements a chained hash table keyed by keyhash.Key.
//
// Two strategies share one type:
//
//   - Unlinked entries carry only a bucket-chain pointer. The table grows once
//     the load factor exceeds 70% and iterates by scanning buckets.
//   - Linked entries are also threaded on a doubly-linked list in insertion
//     order. The table grows once the load factor exceeds 100% and iterates
//     along the list in O(Len).
//
// Bucket counts walk a fixed sequence of primes starting at 0. Rehashing
// re-threads the existing entries, so *Entry pointers stay valid until the
// entry is erased. Erasing shrinks the table when the load falls below a
// quarter of the growth threshold, but never below the initial bucket count.
//
// Insert is idempotent: inserting a key that is already present returns the
// existing entry unchanged.
//
// A Table is not safe for concurrent use.
package hashtable
