package debug

import "fmt"

// Assert panics with the given context if err is non-nil.
// Callers guard it with Enabled so release builds pay nothing.
func Assert(what string, err error) {
	if err != nil {
		panic(fmt.Sprintf("bitblock: %s: invariant violated: %v", what, err))
	}
}
