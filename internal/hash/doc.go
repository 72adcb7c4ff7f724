// Package hash provides the frame checksum used by codec.
//
// Frames are protected with CRC32-Castagnoli, which the standard library
// computes with SSE4.2 or the ARM CRC extension when available.
package hash
