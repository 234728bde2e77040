package queue

import "testing"

func TestReserveGrowsOnRefusal(t *testing.T) {
	q := New(16, 1024)
	if q.CurrentCapacity() != 16 {
		t.Fatalf("expected initial capacity 16, got %d", q.CurrentCapacity())
	}
	// Fill first node past capacity to force growth.
	for i := 0; i < 4; i++ {
		slot, ok := q.Reserve(8)
		if !ok {
			t.Fatalf("reserve %d failed unexpectedly", i)
		}
		copy(slot, []byte{byte(i), byte(i), byte(i), byte(i), byte(i), byte(i), byte(i), byte(i)})
		q.CommitWrite(8)
	}
	if q.CurrentCapacity() <= 16 {
		t.Fatalf("expected queue to have grown, capacity=%d", q.CurrentCapacity())
	}
}

func TestReserveDropsAtCeiling(t *testing.T) {
	q := New(16, 32)
	// Drive capacity to the ceiling.
	for i := 0; i < 10; i++ {
		if _, ok := q.Reserve(8); ok {
			q.CommitWrite(8)
		}
	}
	if q.CurrentCapacity() != 32 {
		t.Fatalf("expected ceiling capacity 32, got %d", q.CurrentCapacity())
	}
	// Drain nothing; fill the ceiling node fully then expect a drop.
	drained := false
	for i := 0; i < 100; i++ {
		if _, ok := q.Reserve(8); !ok {
			drained = true
			break
		}
		q.CommitWrite(8)
	}
	if !drained {
		t.Fatal("expected a reserve to eventually fail at the ceiling")
	}
}

func TestReserveRejectsOversizeRecord(t *testing.T) {
	q := New(16, 32)
	if _, ok := q.Reserve(64); ok {
		t.Fatal("expected oversize record beyond ceiling to be rejected")
	}
}

func TestPeekAdvancesAcrossNodes(t *testing.T) {
	q := New(8, 1024)
	// Two records of 8 bytes each: second forces a new node since the
	// first node (cap 8) cannot hold both without wrapping.
	slot, ok := q.Reserve(8)
	if !ok {
		t.Fatal("reserve 1 failed")
	}
	copy(slot, []byte("AAAAAAAA"))
	q.CommitWrite(8)

	slot, ok = q.Reserve(8)
	if !ok {
		t.Fatal("reserve 2 failed")
	}
	copy(slot, []byte("BBBBBBBB"))
	q.CommitWrite(8)

	data, ok := q.Peek(8)
	if !ok || string(data) != "AAAAAAAA" {
		t.Fatalf("expected AAAAAAAA, got %q ok=%v", data, ok)
	}
	q.CommitRead(8)

	data, ok = q.Peek(8)
	if !ok || string(data) != "BBBBBBBB" {
		t.Fatalf("expected BBBBBBBB, got %q ok=%v", data, ok)
	}
	q.CommitRead(8)

	if !q.IsEmpty() {
		t.Fatal("expected queue empty after draining both records")
	}
}

func TestNewWithBufferReusesSuppliedArray(t *testing.T) {
	buf := make([]byte, 16)
	buf[0] = 0xFF // must be zeroed by NewFromBuffer
	q := NewWithBuffer(buf, 1024)
	if q.CurrentCapacity() != 16 {
		t.Fatalf("expected capacity 16, got %d", q.CurrentCapacity())
	}
	slot, ok := q.Reserve(4)
	if !ok {
		t.Fatal("reserve failed")
	}
	if slot[0] != 0 {
		t.Fatalf("expected zeroed buffer, got %v", slot)
	}
}

func TestReleaseBufferOnlyWhenQueueNeverGrew(t *testing.T) {
	buf := make([]byte, 16)
	q := NewWithBuffer(buf, 1024)
	if got, ok := q.ReleaseBuffer(); !ok || len(got) != 16 {
		t.Fatalf("expected to release the untouched initial buffer, got ok=%v len=%d", ok, len(got))
	}
}

func TestReleaseBufferFailsAfterGrowth(t *testing.T) {
	q := New(16, 1024)
	for i := 0; i < 4; i++ {
		q.Reserve(8)
		q.CommitWrite(8)
	}
	if _, ok := q.ReleaseBuffer(); ok {
		t.Fatal("expected ReleaseBuffer to refuse once the queue has grown past its first node")
	}
}
