// File: wire/header.go
// Package wire implements the type-directed, call-site-specialized
// encoder/decoder pair for on-queue records.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Header layout mirrors core/protocol/frame_codec.go's hand-rolled
// binary.LittleEndian framing style, generalized from a single fixed
// WebSocket frame schema to the logging record's fixed 24-byte header.

package wire

import (
	"encoding/binary"

	"github.com/momentics/nanolog/api"
)

// PutHeader writes h into dst[:api.HeaderSize] in native (little-endian)
// byte order, matching spec's "raw bytes, native byte order" rule for
// fixed-size fields.
func PutHeader(dst []byte, h api.Header) {
	_ = dst[api.HeaderSize-1] // bounds check hint, mirrors frame_codec's style
	binary.LittleEndian.PutUint64(dst[0:8], h.Timestamp)
	binary.LittleEndian.PutUint32(dst[8:12], h.DecoderID)
	binary.LittleEndian.PutUint32(dst[12:16], h.ArgsSize)
	dst[16] = byte(h.Level)
	// dst[17:24] left as pad.
}

// GetHeader reads a Header back out of src[:api.HeaderSize].
func GetHeader(src []byte) api.Header {
	_ = src[api.HeaderSize-1]
	return api.Header{
		Timestamp: binary.LittleEndian.Uint64(src[0:8]),
		DecoderID: binary.LittleEndian.Uint32(src[8:12]),
		ArgsSize:  binary.LittleEndian.Uint32(src[12:16]),
		Level:     api.Level(src[16]),
	}
}
