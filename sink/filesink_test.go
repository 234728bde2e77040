package sink

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenCreatesFirstFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer fs.Close()
	today := time.Now().Format(dateLayout)
	want := filepath.Join(dir, today+"_1.log")
	if fs.CurrentPath() != want {
		t.Fatalf("got %q want %q", fs.CurrentPath(), want)
	}
}

func TestOpenResumesCounterFromExistingFiles(t *testing.T) {
	dir := t.TempDir()
	today := time.Now().Format(dateLayout)
	for _, n := range []int{1, 2, 3} {
		f, err := os.Create(filepath.Join(dir, today+"_"+itoa(n)+".log"))
		if err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	fs, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer fs.Close()
	want := filepath.Join(dir, today+"_4.log")
	if fs.CurrentPath() != want {
		t.Fatalf("got %q want %q", fs.CurrentPath(), want)
	}
}

func TestWriteRotatesOnSizeCeiling(t *testing.T) {
	dir := t.TempDir()
	fs, err := Open(dir, 10)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer fs.Close()
	fs.Write([]byte("0123456789")) // fills exactly to ceiling
	fs.Write([]byte("x"))          // must trigger rotation
	today := time.Now().Format(dateLayout)
	want := filepath.Join(dir, today+"_2.log")
	if fs.CurrentPath() != want {
		t.Fatalf("expected rotation to counter 2, got %q", fs.CurrentPath())
	}
}

func TestWriteSplitsSingleCallAcrossMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	const maxSize = 4096
	fs, err := Open(dir, maxSize)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer fs.Close()

	payload := make([]byte, 3*maxSize)
	for i := range payload {
		payload[i] = 'a'
	}
	n, err := fs.Write(payload)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("expected %d bytes written, got %d", len(payload), n)
	}

	today := time.Now().Format(dateLayout)
	want := filepath.Join(dir, today+"_3.log")
	if fs.CurrentPath() != want {
		t.Fatalf("expected exactly three files, ended on %q", fs.CurrentPath())
	}
	for _, n := range []int{1, 2, 3} {
		path := filepath.Join(dir, today+"_"+itoa(n)+".log")
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %q failed: %v", path, err)
		}
		if info.Size() > maxSize {
			t.Fatalf("file %q exceeded ceiling: %d > %d", path, info.Size(), maxSize)
		}
	}
}

func TestWriteAfterCloseFails(t *testing.T) {
	dir := t.TempDir()
	fs, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	fs.Close()
	if _, err := fs.Write([]byte("x")); err == nil {
		t.Fatalf("expected error writing to closed sink")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	fs, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
