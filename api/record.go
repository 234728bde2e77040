// File: api/record.go
// Author: momentics <momentics@gmail.com>
//
// On-queue record layout shared by wire.Encoder and wire.Decoder.

package api

// HeaderSize is the fixed, packed size in bytes of Header as it appears
// on the queue: 8 (timestamp) + 4 (decoder id) + 4 (args size) + 1 (level)
// + 7 pad = 24, keeping the on-wire header the same 24 bytes as the
// original fixed-layout reference (there a raw 8-byte function pointer
// took the place of the 4-byte decoder id).
const HeaderSize = 24

// Header prefixes every record on a producer's queue. DecoderID indexes
// the process-wide decoder table (see wire.table) in place of a
// raw function pointer: Go's garbage collector may move code but never
// a slice of registered closures we own, and a table index survives a
// byte-for-byte copy through the ring the way a pointer value would not
// safely across goroutines without exposing unsafe.Pointer arithmetic.
type Header struct {
	Timestamp uint64
	DecoderID uint32
	ArgsSize  uint32
	Level     Level
}
