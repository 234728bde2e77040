// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the nanolog library.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrQueueFull      = fmt.Errorf("queue at capacity ceiling, record dropped")
	ErrRecordTooLarge = fmt.Errorf("record exceeds queue capacity ceiling")
	ErrSinkClosed     = fmt.Errorf("sink is closed")
)
