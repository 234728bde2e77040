// File: api/clock.go
// Author: momentics <momentics@gmail.com>
//
// TimeSource is the injected timestamp dependency. Producers stamp a
// record with Now() at encode time; the consumer converts the stamped
// value back to wall-clock time-of-day when formatting the output line.

package api

import "time"

// TimeSource supplies a cheap, monotonically non-decreasing counter for
// producers and a way to convert values it produced back to wall-clock
// time on the consumer side.
type TimeSource interface {
	// Now returns the current tick value. Must be non-decreasing for a
	// single caller (goroutine) across calls.
	Now() uint64

	// ToWallClock converts a tick value previously returned by Now on
	// this TimeSource into a wall-clock time.
	ToWallClock(ticks uint64) time.Time
}
