// Package api
// Author: momentics
//
// Live debug and contract validation support for production workloads.

package api

// Debug exposes runtime introspection and health API. control.DebugProbes
// implements it, and Logger.Diagnostics/backend.Consumer traffic in this
// interface rather than the concrete type so a caller assembling its own
// probe registry can substitute one.
type Debug interface {
	// DumpState emits a snapshot of system state for diagnostics.
	DumpState() map[string]any

	// RegisterProbe dynamically registers new debug probes.
	RegisterProbe(name string, fn func() any)
}
