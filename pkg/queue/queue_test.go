package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(tenant string, ts int64) *types.Task {
	return &types.Task{Tenant: tenant, Timestamp: ts}
}

func TestOffer_RejectsDuplicateKey(t *testing.T) {
	q := New()
	assert.True(t, q.Offer(task("acme", 100)))
	assert.False(t, q.Offer(task("acme", 100)))
	assert.Equal(t, 1, q.Size())
}

func TestOffer_DistinctKeysAllAdmitted(t *testing.T) {
	q := New()
	assert.True(t, q.Offer(task("acme", 100)))
	assert.True(t, q.Offer(task("acme", 200)))
	assert.True(t, q.Offer(task("globex", 100)))
	assert.Equal(t, 3, q.Size())
}

func TestTake_FIFOOrder(t *testing.T) {
	q := New()
	q.Offer(task("acme", 100))
	q.Offer(task("acme", 200))

	first, ok := q.Take()
	require.True(t, ok)
	assert.Equal(t, int64(100), first.Timestamp)

	second, ok := q.Take()
	require.True(t, ok)
	assert.Equal(t, int64(200), second.Timestamp)
}

func TestRequeue_BypassesAdmissionFilter(t *testing.T) {
	q := New()
	tk := task("acme", 100)
	require.True(t, q.Offer(tk))

	taken, ok := q.Take()
	require.True(t, ok)

	// Admission set still holds the key; a fresh Offer must be rejected...
	assert.False(t, q.Offer(task("acme", 100)))

	// ...but Requeue of the same task must succeed, per spec §4.3.
	assert.True(t, q.Requeue(taken))
	assert.Equal(t, 1, q.Size())
}

func TestClose_WakesBlockedTake(t *testing.T) {
	q := New()
	done := make(chan bool, 1)

	go func() {
		_, ok := q.Take()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Take did not unblock after Close")
	}
}

func TestClose_RejectsFurtherOffers(t *testing.T) {
	q := New()
	q.Close()
	assert.False(t, q.Offer(task("acme", 100)))
	assert.False(t, q.Requeue(task("acme", 100)))
}

func TestDrain_ReturnsQueuedWithoutConsuming(t *testing.T) {
	q := New()
	q.Offer(task("acme", 100))
	q.Offer(task("acme", 200))

	drained := q.Drain()
	assert.Len(t, drained, 2)
	assert.Equal(t, 0, q.Size())
}

func TestConcurrentOfferAndTake(t *testing.T) {
	q := New()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(ts int64) {
			defer wg.Done()
			q.Offer(task("acme", ts))
		}(int64(i))
	}
	wg.Wait()
	assert.Equal(t, n, q.Size())

	taken := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			if _, ok := q.Take(); ok {
				taken <- struct{}{}
			}
		}()
	}
	for i := 0; i < n; i++ {
		<-taken
	}
	assert.Equal(t, 0, q.Size())
}
