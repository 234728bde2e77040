//go:build !linux

// File: sink/sync_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platforms without fdatasync fall back to a full fsync; the sink's
// flush contract only promises at least a data sync.

package sink

import "os"

func dataSync(f *os.File) error {
	return f.Sync()
}
