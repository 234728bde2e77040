// File: registry/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Registry owns every producer's queue for the lifetime of the
// process. It mirrors the copy-on-write config swap facade.HioloadWS
// uses for its Config field: producers mutate current_list under a
// writer mutex by publishing an entirely new slice, and the consumer
// reads a private snapshot it refreshes only when notified via
// add_flag/remove_flag, so it never contends with producers on the
// hot path.

package registry

import (
	"sync"
	"sync/atomic"
	"time"

	eapachequeue "github.com/eapache/queue"

	"github.com/momentics/nanolog/pool"
	"github.com/momentics/nanolog/queue"
)

// QueueHandle is a per-producer ownership record.
type QueueHandle struct {
	Queue      queue.Handle
	ProducerID uint64
	CreatedAt  int64

	orphaned   atomic.Bool
	OrphanedAt int64
}

// Orphaned reports whether the owning producer has retired.
func (h *QueueHandle) Orphaned() bool { return h.orphaned.Load() }

// Registry owns all producer queues and hands the consumer a
// consistent, race-free view of them.
type Registry struct {
	mu          sync.Mutex
	currentList atomic.Pointer[[]*QueueHandle]

	addFlag    atomic.Bool
	removeFlag atomic.Bool

	// snapshotList is touched only by the consumer goroutine.
	snapshotList []*QueueHandle

	// handlePool recycles *QueueHandle structs across producer
	// create/destroy churn instead of leaving them for the collector.
	handlePool *pool.SyncPool[*QueueHandle]

	// pendingCurrent stages this cycle's retirees; pendingPrevious
	// stages the prior cycle's, safe to destroy now that the snapshot
	// published alongside them no longer references them. Using
	// eapache/queue's amortized-growth ring here finally exercises a
	// dependency the rest of this codebase carries but never calls.
	pendingCurrent  *eapachequeue.Queue
	pendingPrevious *eapachequeue.Queue

	droppedCount   atomic.Uint64
	nextProducerID atomic.Uint64

	// recycle, if set, receives the backing array of any destroyed
	// handle's queue that never grew past its initial node, letting the
	// caller return it to a pool.BytePool.
	recycle func([]byte)
}

// SetRecycler installs fn to receive initial-node backing arrays
// reclaimed during two-phase deletion. Must be called before the
// consumer starts; not safe to change concurrently with RefreshSnapshot.
func (r *Registry) SetRecycler(fn func([]byte)) {
	r.recycle = fn
}

func (r *Registry) recycleHandle(v interface{}) {
	h, ok := v.(*QueueHandle)
	if !ok {
		return
	}
	if r.recycle != nil {
		if releaser, ok := h.Queue.(queue.BufferReleaser); ok {
			if buf, ok := releaser.ReleaseBuffer(); ok {
				r.recycle(buf)
			}
		}
	}
	h.Queue = nil
	r.handlePool.Put(h)
}

// New creates an empty Registry.
func New() *Registry {
	r := &Registry{
		pendingCurrent:  eapachequeue.New(),
		pendingPrevious: eapachequeue.New(),
		handlePool:      pool.NewSyncPool(func() *QueueHandle { return &QueueHandle{} }),
	}
	empty := []*QueueHandle{}
	r.currentList.Store(&empty)
	return r
}

// Register allocates a QueueHandle wrapping q and publishes it into
// current_list under copy-on-write semantics. Called on a producer's
// first log call. The handle struct itself is drawn from handlePool
// and returned to it once two-phase deletion destroys it.
func (r *Registry) Register(q queue.Handle) *QueueHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.handlePool.Get()
	h.Queue = q
	h.ProducerID = r.nextProducerID.Add(1)
	h.CreatedAt = time.Now().UnixNano()
	h.orphaned.Store(false)
	h.OrphanedAt = 0

	old := *r.currentList.Load()
	fresh := make([]*QueueHandle, len(old)+1)
	copy(fresh, old)
	fresh[len(old)] = h
	r.currentList.Store(&fresh)
	r.addFlag.Store(true)
	return h
}

// Retire marks h's owning producer as gone. If the queue is already
// drained, remove_flag is raised immediately; otherwise the consumer
// will notice the drained queue on a future pass through process_one
// and must raise remove_flag itself via MarkOrphanDrained.
func (r *Registry) Retire(h *QueueHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !h.orphaned.CompareAndSwap(false, true) {
		return
	}
	h.OrphanedAt = time.Now().UnixNano()
	if h.Queue.IsEmpty() {
		r.removeFlag.Store(true)
	}
}

// RecordDrop increments the drop counter. Called by a producer whose
// reserve returned "no space."
func (r *Registry) RecordDrop() {
	r.droppedCount.Add(1)
}

// DroppedCount returns the total number of dropped records.
func (r *Registry) DroppedCount() uint64 {
	return r.droppedCount.Load()
}

// Dirty reports whether add_flag or remove_flag is set, i.e. whether
// the consumer should refresh its snapshot before the next pass.
func (r *Registry) Dirty() bool {
	return r.addFlag.Load() || r.removeFlag.Load()
}

// RefreshSnapshot is called by the consumer at the top of its loop. It
// implements the two-phase deletion protocol: any handle staged from
// the previous remove_flag cycle is now safe to drop (the snapshot
// published at that time already excluded it), so it is discarded
// before this cycle's retirees are staged in its place.
func (r *Registry) RefreshSnapshot() {
	if r.addFlag.Load() && !r.removeFlag.Load() {
		r.mu.Lock()
		cur := *r.currentList.Load()
		r.snapshotList = append([]*QueueHandle(nil), cur...)
		r.addFlag.Store(false)
		r.mu.Unlock()
		return
	}
	if !r.removeFlag.Load() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for r.pendingPrevious.Length() > 0 {
		r.recycleHandle(r.pendingPrevious.Remove())
	}

	cur := *r.currentList.Load()
	kept := make([]*QueueHandle, 0, len(cur))
	for _, h := range cur {
		if h.Orphaned() && h.Queue.IsEmpty() {
			r.pendingCurrent.Add(h)
			continue
		}
		kept = append(kept, h)
	}
	r.currentList.Store(&kept)
	r.snapshotList = append([]*QueueHandle(nil), kept...)
	r.addFlag.Store(false)
	r.removeFlag.Store(false)

	r.pendingPrevious, r.pendingCurrent = r.pendingCurrent, eapachequeue.New()
}

// MarkOrphanDrained is called by the consumer when it observes, while
// scanning the snapshot, that an already-orphaned queue has become
// empty. It raises remove_flag so the next RefreshSnapshot call stages
// the handle for two-phase deletion.
func (r *Registry) MarkOrphanDrained(h *QueueHandle) {
	if h.Orphaned() && h.Queue.IsEmpty() {
		r.removeFlag.Store(true)
	}
}

// Snapshot returns the consumer's current private view. Only the
// consumer goroutine may call this.
func (r *Registry) Snapshot() []*QueueHandle {
	return r.snapshotList
}

// Shutdown drains both pending-deletion stages and clears the
// snapshot and current list, for use during final consumer shutdown
// after process_one has stopped producing work.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.pendingPrevious.Length() > 0 {
		r.recycleHandle(r.pendingPrevious.Remove())
	}
	for r.pendingCurrent.Length() > 0 {
		r.recycleHandle(r.pendingCurrent.Remove())
	}
	empty := []*QueueHandle{}
	r.currentList.Store(&empty)
	r.snapshotList = nil
}
