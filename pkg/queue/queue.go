package queue

import (
	"container/list"
	"sync"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/types"
)

// Queue is the TaskQueue. Offer and Take may be called concurrently
// from any goroutine; the admission-set check and the enqueue are
// atomic with respect to one another.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *list.List // of *types.Task, FIFO order
	seen   map[types.AdmissionKey]struct{}
	closed bool
}

// New constructs an empty Queue.
func New() *Queue {
	q := &Queue{
		items: list.New(),
		seen:  make(map[types.AdmissionKey]struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Offer enqueues task if its (tenant, timestamp) key has never been
// admitted before in this queue's lifetime. It returns false if the key
// is already in the admission set, or if the queue is closed.
func (q *Queue) Offer(task *types.Task) (accepted bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	key := task.Key()
	if _, exists := q.seen[key]; exists {
		return false
	}

	q.seen[key] = struct{}{}
	q.items.PushBack(task)
	q.cond.Signal()
	return true
}

// Requeue re-enqueues task for a retry (health-gate veto or transient
// load failure). Unlike Offer, it bypasses the admission filter: the
// key is already a member of the admission set (first seen by the
// scanner), and re-entry here must not be rejected on that basis (spec
// §4.3). Requeue is a no-op if the queue has been closed, since closing
// discards queued work for shutdown (spec §4.5).
func (q *Queue) Requeue(task *types.Task) (accepted bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.items.PushBack(task)
	q.cond.Signal()
	return true
}

// Take blocks until a task is available or the queue is closed. ok is
// false only when the queue is closed and drained.
func (q *Queue) Take() (task *types.Task, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Len() == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.items.Len() == 0 {
		return nil, false
	}

	front := q.items.Front()
	q.items.Remove(front)
	return front.Value.(*types.Task), true
}

// Close wakes all waiters and rejects further Offer/Requeue calls.
// Already-queued tasks remain in the list until drained by Take, which
// then returns ok=false once empty; callers that want to discard
// queued-but-not-yet-taken work on shutdown should stop calling Take
// after observing Close, per spec §4.5 step 3.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Size returns the number of tasks currently queued (not counting
// in-flight tasks a worker has already Taken).
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Drain removes and returns every task still queued, without taking
// them through the normal Take path. Used by the supervisor's shutdown
// sequence to report how much queued work was discarded (spec §4.5
// step 3).
func (q *Queue) Drain() []*types.Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	var drained []*types.Task
	for e := q.items.Front(); e != nil; e = e.Next() {
		drained = append(drained, e.Value.(*types.Task))
	}
	q.items.Init()
	return drained
}
