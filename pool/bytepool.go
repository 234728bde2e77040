// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import "sync"

// BytePool hands out fixed-size byte buffers backed by a sync.Pool,
// avoiding a fresh allocation on every Get once the pool has warmed
// up.
type BytePool struct {
	pool *sync.Pool
	size int
}

// NewBytePool creates a pool of buffers of exactly size bytes.
func NewBytePool(size int) *BytePool {
	return &BytePool{
		size: size,
		pool: &sync.Pool{New: func() any {
			buf := make([]byte, size)
			return &buf
		}},
	}
}

// GetBuffer returns a buffer from the pool, allocating a fresh one if
// none is idle.
func (b *BytePool) GetBuffer() []byte {
	return *(b.pool.Get().(*[]byte))
}

// PutBuffer returns a buffer to the pool for reuse. Buffers of the
// wrong size are dropped rather than pooled.
func (b *BytePool) PutBuffer(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	buf = buf[:b.size]
	b.pool.Put(&buf)
}
