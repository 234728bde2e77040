// File: logger.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Logger is the facade the rest of this module builds toward: it wires
// the registry, format buffer, sink, and consumer together behind
// New/Start/Stop and exposes Control-style observability, backed by
// control/config.go, control/metrics.go, and control/debug.go.

package nanolog

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/momentics/nanolog/api"
	"github.com/momentics/nanolog/backend"
	"github.com/momentics/nanolog/control"
	"github.com/momentics/nanolog/format"
	"github.com/momentics/nanolog/pool"
	"github.com/momentics/nanolog/registry"
	"github.com/momentics/nanolog/ring"
	"github.com/momentics/nanolog/sink"
)

// loggerCore holds all state shared between a Logger and every
// NewNamedLogger derived from it. Named loggers differ only in the
// name field carried on Logger itself.
type loggerCore struct {
	config *Config
	clock  api.TimeSource

	registry  *registry.Registry
	formatBuf *format.Buffer
	sink      *sink.FileSink

	configStore *control.ConfigStore
	metrics     *control.MetricsRegistry
	debug       api.Debug

	// bufPool reuses initial-node backing arrays across producer
	// create/close churn instead of letting the garbage collector
	// reclaim and re-allocate them on every NewProducer call.
	bufPool *pool.BytePool

	minLevel atomic.Uint32

	mu       sync.Mutex
	consumer *backend.Consumer
}

// Logger is a named handle onto a loggerCore. The zero-value name is
// the unnamed/default logger for a process.
type Logger struct {
	name string
	core *loggerCore
}

// New constructs a Logger. A nil cfg selects DefaultConfig().
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	fs, err := sink.Open(cfg.LogDir, cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("nanolog: sink init failed: %w", err)
	}

	initCap := ring.RoundUpCapacity(cfg.InitialQueueCapacity)
	core := &loggerCore{
		config:      cfg,
		clock:       systemClock{},
		registry:    registry.New(),
		formatBuf:   format.New(cfg.FormatBufferSize, fs),
		sink:        fs,
		configStore: control.NewConfigStore(),
		metrics:     control.NewMetricsRegistry(),
		debug:       control.NewDebugProbes(),
		bufPool:     pool.NewBytePool(int(initCap)),
	}
	core.minLevel.Store(uint32(cfg.MinLevel))
	core.registry.SetRecycler(core.bufPool.PutBuffer)

	core.configStore.SetConfig(map[string]any{"min_level": cfg.MinLevel})
	core.configStore.OnReload(func() {
		snap := core.configStore.GetSnapshot()
		if lvl, ok := snap["min_level"].(api.Level); ok {
			core.minLevel.Store(uint32(lvl))
		}
	})

	core.debug.RegisterProbe("nanolog_current_sink_path", func() any {
		return core.sink.CurrentPath()
	})
	core.debug.RegisterProbe("nanolog_dropped_count", func() any {
		return core.registry.DroppedCount()
	})
	control.RegisterPlatformProbes(core.debug)

	return &Logger{core: core}, nil
}

// MinLevel returns the level currently in effect. Records submitted
// below this level are dropped at the call site before ever reaching
// a queue.
func (l *Logger) MinLevel() api.Level { return api.Level(l.core.minLevel.Load()) }

// SetMinLevel updates the minimum level and triggers hot-reload
// propagation, so a running process can change verbosity without a
// restart. The reload dispatches to listeners on a separate goroutine,
// so MinLevel may still report the old value for a brief window after
// this call returns.
func (l *Logger) SetMinLevel(level api.Level) {
	l.core.configStore.SetConfig(map[string]any{"min_level": level})
}

// BackendStart launches the background consumer goroutine. Calling it
// more than once has no additional effect.
func (l *Logger) BackendStart() {
	c := l.core
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.consumer != nil {
		return
	}
	c.consumer = backend.New(c.registry, c.formatBuf, c.clock, c.config.CPUAffinity, c.metrics, c.debug)
	go c.consumer.Run()
}

// BackendStop signals the consumer to drain and exit, then closes the
// sink. Blocks until the consumer has fully stopped. Safe to call
// even if BackendStart was never called.
func (l *Logger) BackendStop() {
	c := l.core
	c.mu.Lock()
	consumer := c.consumer
	c.mu.Unlock()
	if consumer != nil {
		consumer.Stop()
	}
	c.sink.Close()
}

// NewProducer allocates a fresh per-producer queue and registers it.
// Call once per goroutine/thread that will submit log records, and
// call Producer.Close when that goroutine is done logging.
func (l *Logger) NewProducer() *Producer {
	return newProducer(l)
}

// DroppedCount reports the cumulative number of records dropped due
// to queue pressure.
func (l *Logger) DroppedCount() uint64 { return l.core.registry.DroppedCount() }

// Diagnostics returns a snapshot of every registered debug probe,
// including consumer stall duration, processed-record count, dropped
// count, and the current sink path.
func (l *Logger) Diagnostics() map[string]any { return l.core.debug.DumpState() }

// Metrics returns a snapshot of the metrics registry.
func (l *Logger) Metrics() map[string]any { return l.core.metrics.GetSnapshot() }

// NewNamedLogger returns a Logger sharing this Logger's registry,
// consumer, and sink, but which prefixes "[name] " onto the format
// string the first time each of its call sites registers a decoder.
func (l *Logger) NewNamedLogger(name string) *Logger {
	return &Logger{name: name, core: l.core}
}
