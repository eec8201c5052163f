package service

import (
	"sync"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

// OfflineQueue is the append-only FIFO list of mutations recorded while the
// technician client is offline. Operations are consumed (never mutated) by
// the sync runner.
//
// Draining is snapshot-based: the runner replays a snapshot and then removes
// exactly that many operations from the head, so anything enqueued while a
// drain is running stays queued for the next online transition.
type OfflineQueue struct {
	mu  sync.Mutex
	ops []core.OfflineOperation
}

func NewOfflineQueue() *OfflineQueue {
	return &OfflineQueue{}
}

// Enqueue appends an operation to the tail.
func (q *OfflineQueue) Enqueue(op core.OfflineOperation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ops = append(q.ops, op)
}

// Len returns the number of queued operations.
func (q *OfflineQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// Snapshot returns a copy of the queued operations in enqueue order.
func (q *OfflineQueue) Snapshot() []core.OfflineOperation {
	q.mu.Lock()
	defer q.mu.Unlock()
	ops := make([]core.OfflineOperation, len(q.ops))
	copy(ops, q.ops)
	return ops
}

// RemoveHead drops the first n operations (the ones a drain pass replayed).
func (q *OfflineQueue) RemoveHead(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n >= len(q.ops) {
		q.ops = nil
		return
	}
	q.ops = append([]core.OfflineOperation(nil), q.ops[n:]...)
}
