// File: wire/decoder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The consumer-side counterpart of Arg's encoders. A DecodeFunc is the
// Go analogue of the C++ reference's DecoderFunc function pointer: it
// knows, from its own closure, the call site's format string and
// argument types, and formats directly into an io.Writer with no
// intermediate heap-allocated string. The 24-byte Header stores a
// DecoderID (a table index) in the raw pointer's place, since the
// GC-untracked byte ring cannot safely hold a live Go pointer.

package wire

import (
	"fmt"
	"io"
	"sync"
)

// DecodeFunc consumes exactly ArgsSize bytes of payload and formats the
// reconstructed arguments into w.
type DecodeFunc func(payload []byte, w io.Writer) error

var (
	tableMu sync.Mutex
	table   []DecodeFunc
)

func register(fn DecodeFunc) uint32 {
	tableMu.Lock()
	defer tableMu.Unlock()
	table = append(table, fn)
	return uint32(len(table) - 1)
}

// Lookup returns the decoder registered under id. Panics on an unknown
// id, which can only happen from queue corruption — the header and
// payload schema agree by construction, per spec.md's invariant.
func Lookup(id uint32) DecodeFunc {
	tableMu.Lock()
	defer tableMu.Unlock()
	return table[id]
}

// RegisterDecoder0 registers a decoder for a call site with no
// arguments, formatting the literal format string unchanged.
func RegisterDecoder0(format string) uint32 {
	return register(func(_ []byte, w io.Writer) error {
		_, err := io.WriteString(w, format)
		return err
	})
}

// RegisterDecoder1 registers a decoder for a single-argument call site.
func RegisterDecoder1[A Arg](format string) uint32 {
	return register(func(payload []byte, w io.Writer) error {
		a, _ := decodeArg[A](payload)
		_, err := fmt.Fprintf(w, format, a)
		return err
	})
}

// RegisterDecoder2 registers a decoder for a two-argument call site.
func RegisterDecoder2[A, B Arg](format string) uint32 {
	return register(func(payload []byte, w io.Writer) error {
		a, n := decodeArg[A](payload)
		b, _ := decodeArg[B](payload[n:])
		_, err := fmt.Fprintf(w, format, a, b)
		return err
	})
}

// RegisterDecoder3 registers a decoder for a three-argument call site.
func RegisterDecoder3[A, B, C Arg](format string) uint32 {
	return register(func(payload []byte, w io.Writer) error {
		a, n1 := decodeArg[A](payload)
		b, n2 := decodeArg[B](payload[n1:])
		c, _ := decodeArg[C](payload[n1+n2:])
		_, err := fmt.Fprintf(w, format, a, b, c)
		return err
	})
}

// RegisterDecoder4 registers a decoder for a four-argument call site.
func RegisterDecoder4[A, B, C, D Arg](format string) uint32 {
	return register(func(payload []byte, w io.Writer) error {
		a, n1 := decodeArg[A](payload)
		b, n2 := decodeArg[B](payload[n1:])
		c, n3 := decodeArg[C](payload[n1+n2:])
		d, _ := decodeArg[D](payload[n1+n2+n3:])
		_, err := fmt.Fprintf(w, format, a, b, c, d)
		return err
	})
}
