//go:build !bitblockdebug

// Package debug gates invariant assertions behind the bitblockdebug build tag.
package debug

// Enabled reports whether invariant assertions run after each mutation.
const Enabled = false
