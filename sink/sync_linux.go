//go:build linux

// File: sink/sync_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// dataSync uses fdatasync directly so a Flush only pays for a data
// sync, not the full fsync os.File.Sync issues (which also flushes
// inode metadata the sink's flush contract does not require).

package sink

import (
	"os"

	"golang.org/x/sys/unix"
)

func dataSync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
