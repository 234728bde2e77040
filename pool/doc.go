// Package pool
// Author: momentics <momentics@gmail.com>
//
// Buffer and object pooling primitives shared across the producer and
// consumer paths, used to recycle short-lived allocations that would
// otherwise churn the garbage collector.
// See bytepool.go, objpool.go for implementation details.
package pool
