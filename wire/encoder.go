// File: wire/encoder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Encode is the producer-side counterpart of decoder.go: given a slot
// the caller has already reserved from the destination queue (SizeN
// reports how many bytes it needs), a timestamp, level, decoder id and
// the call site's concrete argument values, EncodeN writes the header,
// then writes the payload in one pass. No allocation beyond what append(dst, ...) needs when dst's
// backing array (the ring's reserved slot) is already sized correctly
// — Reserve always hands back a slot exactly Size() bytes long, so the
// append calls in encodeArg never grow the slice.

package wire

import (
	"github.com/momentics/nanolog/api"
)

// Sink is the minimal write surface of a destination queue that supplies
// the slots EncodeN writes into: reserve a contiguous slot, then publish it.
type Sink interface {
	Reserve(size int) ([]byte, bool)
	CommitWrite(size int)
}

// Size0 returns the total record size (header only) for a zero-argument
// call site.
func Size0() int { return api.HeaderSize }

// Size1 returns the total record size for a one-argument call site.
func Size1[A Arg](a A) int { return api.HeaderSize + argSize(a) }

// Size2 returns the total record size for a two-argument call site.
func Size2[A, B Arg](a A, b B) int { return api.HeaderSize + argSize(a) + argSize(b) }

// Size3 returns the total record size for a three-argument call site.
func Size3[A, B, C Arg](a A, b B, c C) int {
	return api.HeaderSize + argSize(a) + argSize(b) + argSize(c)
}

// Size4 returns the total record size for a four-argument call site.
func Size4[A, B, C, D Arg](a A, b B, c C, d D) int {
	return api.HeaderSize + argSize(a) + argSize(b) + argSize(c) + argSize(d)
}

func putHeaderAndPayload(dst []byte, ts uint64, level api.Level, decoderID uint32, argsSize int, payload func([]byte) []byte) {
	PutHeader(dst, api.Header{Timestamp: ts, DecoderID: decoderID, ArgsSize: uint32(argsSize), Level: level})
	body := dst[api.HeaderSize:api.HeaderSize]
	payload(body)
}

// Encode0 writes a zero-argument record into dst (a slot of exactly
// Size0() bytes obtained from Sink.Reserve).
func Encode0(dst []byte, ts uint64, level api.Level, decoderID uint32) {
	PutHeader(dst, api.Header{Timestamp: ts, DecoderID: decoderID, Level: level})
}

// Encode1 writes a one-argument record into dst.
func Encode1[A Arg](dst []byte, ts uint64, level api.Level, decoderID uint32, a A) {
	argsSize := argSize(a)
	putHeaderAndPayload(dst, ts, level, decoderID, argsSize, func(body []byte) []byte {
		return encodeArg(body, a)
	})
}

// Encode2 writes a two-argument record into dst.
func Encode2[A, B Arg](dst []byte, ts uint64, level api.Level, decoderID uint32, a A, b B) {
	argsSize := argSize(a) + argSize(b)
	putHeaderAndPayload(dst, ts, level, decoderID, argsSize, func(body []byte) []byte {
		body = encodeArg(body, a)
		body = encodeArg(body, b)
		return body
	})
}

// Encode3 writes a three-argument record into dst.
func Encode3[A, B, C Arg](dst []byte, ts uint64, level api.Level, decoderID uint32, a A, b B, c C) {
	argsSize := argSize(a) + argSize(b) + argSize(c)
	putHeaderAndPayload(dst, ts, level, decoderID, argsSize, func(body []byte) []byte {
		body = encodeArg(body, a)
		body = encodeArg(body, b)
		body = encodeArg(body, c)
		return body
	})
}

// Encode4 writes a four-argument record into dst.
func Encode4[A, B, C, D Arg](dst []byte, ts uint64, level api.Level, decoderID uint32, a A, b B, c C, d D) {
	argsSize := argSize(a) + argSize(b) + argSize(c) + argSize(d)
	putHeaderAndPayload(dst, ts, level, decoderID, argsSize, func(body []byte) []byte {
		body = encodeArg(body, a)
		body = encodeArg(body, b)
		body = encodeArg(body, c)
		body = encodeArg(body, d)
		return body
	})
}
