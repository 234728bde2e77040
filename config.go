// File: config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Config carries the construction-time knobs for a Logger, directly
// grounded on facade.Config/facade.DefaultConfig()'s immutable-per-run
// struct-plus-constructor idiom.

package nanolog

import (
	"github.com/momentics/nanolog/api"
	"github.com/momentics/nanolog/queue"
)

const defaultMaxFileSize = 100 * 1024 * 1024 // 100 MiB, per spec recommendation

// Config holds parameters immutable per Logger instance. Dynamic
// knobs (currently only MinLevel) flow through the Logger's
// control.ConfigStore instead, and can be changed after New via
// SetMinLevel.
type Config struct {
	LogDir               string    // directory the FileSink writes into
	MaxFileSize          int64     // rotation ceiling in bytes
	FormatBufferSize     int       // initial FormatBuffer capacity
	MinLevel             api.Level // records below this level are dropped at the call site
	CPUAffinity          *int      // logical CPU to pin the consumer to, nil disables pinning
	InitialQueueCapacity uint64    // starting capacity of each producer's GrowableQueue
	QueueCapacityCeiling uint64    // maximum capacity a producer's queue may grow to
}

// DefaultConfig returns sane defaults for typical single-process use.
func DefaultConfig() *Config {
	return &Config{
		LogDir:               "logs",
		MaxFileSize:          defaultMaxFileSize,
		FormatBufferSize:     64 * 1024,
		MinLevel:             api.INFO,
		CPUAffinity:          nil,
		InitialQueueCapacity: queue.DefaultInitialCapacity,
		QueueCapacityCeiling: queue.DefaultCeiling,
	}
}
