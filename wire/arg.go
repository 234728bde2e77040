// File: wire/arg.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Arg is the type set an argument at a log call site may have. Go has
// no source-language template metaprogramming, so call-site
// specialization is achieved instead through generic instantiation:
// the compiler emits one copy of encodeArg/decodeArg per concrete type
// argument actually used, which is the same "one specialization per
// call site" property spec.md asks for, just reached through Go
// generics rather than C++ templates.
//
// Go strings are immutable, so unlike the C++ reference there is no
// separate "compile-time literal: store pointer only" fast path here:
// a Go string constant and a Go string variable are indistinguishable
// at the call site without unsafe unsafe.Pointer aliasing into the
// byte queue's untyped backing array, which the garbage collector does
// not scan for pointers. Every string and byte slice argument is
// therefore always copied into the payload — the "owned/runtime
// string" branch of spec.md's encoding table is the only branch that
// exists here, and it is always correct.
package wire

import (
	"encoding/binary"
	"unsafe"
)

// Arg constrains the argument types the generic Encode/Decode family
// accepts: fixed-width scalars, plus strings and byte slices which are
// always length-prefixed and copied.
type Arg interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~bool | ~string | ~[]byte
}

// argSize returns the number of payload bytes v will occupy, matching
// the per-argument table in spec.md §4.3.
func argSize[T Arg](v T) int {
	if s, ok := any(v).(string); ok {
		return 2 + len(s)
	}
	if b, ok := any(v).([]byte); ok {
		return 2 + len(b)
	}
	return int(unsafe.Sizeof(v))
}

// encodeArg appends v's encoded form to dst and returns the result.
// String and []byte content is copied directly via the copy builtin
// (which, unlike a []byte(s) conversion, never allocates a fresh
// backing array), so the hot encode path stays allocation-free.
func encodeArg[T Arg](dst []byte, v T) []byte {
	if s, ok := any(v).(string); ok {
		n := len(dst)
		dst = dst[:n+2+len(s)]
		binary.LittleEndian.PutUint16(dst[n:n+2], uint16(len(s)))
		copy(dst[n+2:], s)
		return dst
	}
	if b, ok := any(v).([]byte); ok {
		n := len(dst)
		dst = dst[:n+2+len(b)]
		binary.LittleEndian.PutUint16(dst[n:n+2], uint16(len(b)))
		copy(dst[n+2:], b)
		return dst
	}
	return encodeScalar(dst, v)
}

// encodeScalar writes raw native-order bytes for a fixed-width scalar.
// Reached only for T that is not string or []byte; unreachable
// instantiations for those two kinds are never invoked at runtime
// because encodeArg returns before calling this for them.
func encodeScalar[T Arg](dst []byte, v T) []byte {
	size := int(unsafe.Sizeof(v))
	var tmp [8]byte
	*(*T)(unsafe.Pointer(&tmp[0])) = v
	return append(dst, tmp[:size]...)
}

// decodeArg reads one T from the front of payload, returning the value
// and the number of bytes consumed.
func decodeArg[T Arg](payload []byte) (T, int) {
	var zero T
	switch any(zero).(type) {
	case string:
		n := int(binary.LittleEndian.Uint16(payload[0:2]))
		s := string(payload[2 : 2+n])
		return any(s).(T), 2 + n
	case []byte:
		n := int(binary.LittleEndian.Uint16(payload[0:2]))
		b := append([]byte(nil), payload[2:2+n]...)
		return any(b).(T), 2 + n
	default:
		size := int(unsafe.Sizeof(zero))
		var v T
		copy((*[8]byte)(unsafe.Pointer(&v))[:size], payload[:size])
		return v, size
	}
}
