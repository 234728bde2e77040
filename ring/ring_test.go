package ring

import "testing"

func TestReserveRejectsZeroAndOversize(t *testing.T) {
	r := New(16)
	if _, ok := r.Reserve(0); ok {
		t.Fatal("expected zero-size reserve to be rejected")
	}
	if _, ok := r.Reserve(int(r.Capacity()) + 1); ok {
		t.Fatal("expected oversize reserve to be rejected")
	}
}

func TestReserveCommitRoundTrip(t *testing.T) {
	r := New(16)
	slot, ok := r.Reserve(4)
	if !ok {
		t.Fatal("expected reserve to succeed")
	}
	copy(slot, []byte{1, 2, 3, 4})
	r.CommitWrite(4)

	data, ok := r.Peek(4)
	if !ok {
		t.Fatal("expected peek to succeed")
	}
	if data[0] != 1 || data[3] != 4 {
		t.Fatalf("unexpected data: %v", data)
	}
	r.CommitRead(4)
	if !r.IsEmpty() {
		t.Fatal("expected ring to be empty after commit_read")
	}
}

func TestReserveRefusesWrapCrossingWrite(t *testing.T) {
	r := New(16) // capacity rounds to 16
	// Fill then drain to push write_pos near the boundary.
	_, ok := r.Reserve(12)
	if !ok {
		t.Fatal("expected first reserve to succeed")
	}
	r.CommitWrite(12)
	if _, ok := r.Peek(12); !ok {
		t.Fatal("expected data available")
	}
	r.CommitRead(12)

	// write_pos is now at 12; a 6-byte reserve would straddle the
	// 16-byte boundary (12+6=18>16) even though 6 bytes are free.
	if _, ok := r.Reserve(6); ok {
		t.Fatal("expected wrap-crossing reserve to be refused")
	}
	// But a reserve that fits before the boundary still succeeds.
	if _, ok := r.Reserve(4); !ok {
		t.Fatal("expected non-wrapping reserve to succeed")
	}
}

func TestPeekInsufficientData(t *testing.T) {
	r := New(16)
	slot, _ := r.Reserve(2)
	copy(slot, []byte{9, 9})
	r.CommitWrite(2)
	if _, ok := r.Peek(4); ok {
		t.Fatal("expected peek to fail when insufficient data buffered")
	}
}

func TestCapacityRoundsToPowerOfTwo(t *testing.T) {
	r := New(10)
	if r.Capacity() != 16 {
		t.Fatalf("expected capacity 16, got %d", r.Capacity())
	}
}
