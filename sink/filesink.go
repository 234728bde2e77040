// File: sink/filesink.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FileSink is an append-only, size-rotated, date-named log file sink.
// The rotate-on-size algorithm is the Go counterpart of the reference
// Sinker: close the current descriptor, advance the counter, open the
// next file. Naming and open-time counter recovery are date-based
// rather than the reference's plain numeric suffix.

package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/momentics/nanolog/api"
)

const defaultMaxFileSize = 100 * 1024 * 1024 // 100 MiB, per spec recommendation

const dateLayout = "2006-01-02"

var nameRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_(\d+)\.log$`)

// FileSink writes bytes to files named "YYYY-MM-DD_N.log" under dir,
// rotating to a new file when the size ceiling is reached or the
// calendar date changes.
type FileSink struct {
	mu          sync.Mutex
	dir         string
	maxFileSize int64

	file    *os.File
	date    string
	counter int
	size    int64
	closed  bool
}

// Open creates or resumes a FileSink rooted at dir. maxFileSize <= 0
// selects the default 100 MiB ceiling. On creation it scans dir for
// today's existing files and continues the counter from the highest
// one found.
func Open(dir string, maxFileSize int64) (*FileSink, error) {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fs := &FileSink{dir: dir, maxFileSize: maxFileSize}
	today := time.Now().Format(dateLayout)
	n, err := nextCounter(dir, today)
	if err != nil {
		return nil, err
	}
	if err := fs.openFile(today, n); err != nil {
		return nil, err
	}
	return fs, nil
}

// nextCounter scans dir for files matching today's date and returns
// one greater than the highest counter found, or 1 if none exist.
func nextCounter(dir, today string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := nameRe.FindStringSubmatch(e.Name())
		if m == nil || m[1] != today {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1, nil
}

func (fs *FileSink) openFile(date string, counter int) error {
	path := filepath.Join(fs.dir, fmt.Sprintf("%s_%d.log", date, counter))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fs.closed = true
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		fs.closed = true
		return err
	}
	fs.file = f
	fs.date = date
	fs.counter = counter
	fs.size = info.Size()
	return nil
}

// rotate closes the current file and opens the next one. On failure
// the sink transitions to a permanently closed state, per the
// fail-fast rotation contract.
func (fs *FileSink) rotate(date string, counter int) error {
	if fs.file != nil {
		fs.file.Close()
	}
	return fs.openFile(date, counter)
}

// Write appends p, rotating as many times as needed to keep every
// file at or under maxFileSize. A single call may span several files:
// the caller (format.Buffer.Flush) may hand over a staged buffer far
// larger than the size ceiling, so Write splits it at each rotation
// boundary rather than rotating at most once.
func (fs *FileSink) Write(p []byte) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return 0, api.ErrSinkClosed
	}

	var written int
	for len(p) > 0 {
		today := time.Now().Format(dateLayout)
		if today != fs.date {
			if err := fs.rotate(today, 1); err != nil {
				return written, err
			}
		}
		if fs.size >= fs.maxFileSize {
			if err := fs.rotate(fs.date, fs.counter+1); err != nil {
				return written, err
			}
		}

		room := fs.maxFileSize - fs.size
		chunk := p
		if int64(len(chunk)) > room {
			chunk = chunk[:room]
		}

		n, err := fs.file.Write(chunk)
		fs.size += int64(n)
		written += n
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}

// Flush requests a data sync of the current file. Metadata durability
// is not guaranteed, matching the sink's stated per-flush contract.
func (fs *FileSink) Flush() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return api.ErrSinkClosed
	}
	return dataSync(fs.file)
}

// Close flushes and closes the underlying file. Idempotent.
func (fs *FileSink) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return nil
	}
	fs.closed = true
	fs.file.Sync()
	return fs.file.Close()
}

// CurrentPath returns the path of the file currently being written,
// used by diagnostics to report the active sink target.
func (fs *FileSink) CurrentPath() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return filepath.Join(fs.dir, fmt.Sprintf("%s_%d.log", fs.date, fs.counter))
}
