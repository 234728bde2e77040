// File: clock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package nanolog

import "time"

// systemClock is the default api.TimeSource: wall-clock nanoseconds
// since the Unix epoch, which is monotonic enough for record ordering
// within a single process run and trivially convertible back to a
// wall-clock time for display.
type systemClock struct{}

func (systemClock) Now() uint64 { return uint64(time.Now().UnixNano()) }

func (systemClock) ToWallClock(ticks uint64) time.Time {
	return time.Unix(0, int64(ticks))
}
