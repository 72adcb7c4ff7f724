//go:build bitblockdebug

package debug

// Enabled reports whether invariant assertions run after each mutation.
const Enabled = true
