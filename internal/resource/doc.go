// Package resource accounts for the shared resources used by tables, caches
// and index builds.
//
//   - Memory: entry and bucket allocations are charged against an optional
//     hard limit. AcquireMemory never blocks; a refusal is reported as
//     ErrMemoryLimitExceeded and the caller decides what to do.
//   - Workers: Build-style fan-out takes one slot per running worker.
//   - IO: encoders and decoders can be throttled with a token bucket.
//
// All methods are safe for concurrent use and a nil *Controller is a valid
// no-op controller.
package resource
