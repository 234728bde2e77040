// File: api/sink.go
// Author: momentics <momentics@gmail.com>
//
// Sink is the replaceable file-rotation contract consumed by the backend.
// The default implementation lives in package sink; callers may supply
// their own for e.g. network or syslog delivery.

package api

// Sink is an append-only byte destination with its own rotation policy.
type Sink interface {
	// Write appends p in full or returns an error; partial writes are
	// treated as failures by callers.
	Write(p []byte) (int, error)

	// Flush requests the sink durably persist buffered bytes (data only,
	// not necessarily metadata).
	Flush() error

	// Close releases any open file descriptors. Idempotent.
	Close() error
}
