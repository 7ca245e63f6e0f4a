/*
Package queue implements the TaskQueue: a FIFO of pending snapshot
tasks guarded by an admission set that stops a (tenant, timestamp)
pair from ever being queued twice for the life of the queue.

# Architecture

	┌───────────┐  Offer(task)   ┌────────────────────────────┐
	│  Scanner  │ ─────────────▶ │           Queue             │
	└───────────┘                │  seen: map[AdmissionKey]{}  │
	                              │  items: FIFO list           │
	┌───────────┐  Requeue(task) │                              │
	│  Worker   │ ─────────────▶ │                              │
	└───────────┘                └──────────────┬───────────────┘
	     ▲                                       │ Take() blocks
	     │                                       ▼
	     └───────────────────────────── *types.Task, ok

# Admission vs. requeue

Offer and Requeue both append to the same FIFO list but enforce
different policies:

  - Offer checks the admission set first. A (tenant, timestamp) pair
    is admitted at most once; a scanner sweep that rediscovers an
    already-seen snapshot (the common case — most sweeps see nothing
    new) gets accepted=false and moves on.
  - Requeue bypasses the admission set entirely. A task being retried
    after a health-gate veto or a transient load failure is already a
    member of seen — re-checking would reject its own retry.

This split is the reason the admission set and the FIFO list are two
separate data structures rather than one: membership answers "have we
ever queued this pair", while the list answers "what's next to run",
and a retried task needs to re-enter the second without touching the
first.

# Blocking consumers

Take blocks on a condition variable until an item is available or the
queue is closed, so a Worker.Run loop is just:

	for {
		task, ok := q.Take()
		if !ok {
			return
		}
		process(task)
	}

No polling, no busy-wait: Offer and Requeue both Signal the condition
variable after pushing, waking exactly one blocked Take.

# Shutdown

Close marks the queue closed and wakes every blocked Take, but it does
not by itself discard already-queued tasks — a Take called right after
Close still drains whatever was queued before returning ok=false. The
supervisor's shutdown sequence (spec §4.5 step 3) calls Drain
immediately after Close to discard what is left. The two calls each
take the mutex separately, so a worker whose Take lands between them
still receives one of the remaining items.

# Concurrency

Every exported method takes the same mutex; there is no lock-free
fast path. At the queue sizes this supervisor runs at (one queued item
per tenant snapshot, scanned on an interval measured in seconds to
minutes) contention is not a concern this package optimizes for.

# See Also

  - pkg/supervisor - its scanner loop is the only Offer caller
  - pkg/worker - Take and Requeue
  - pkg/supervisor - also Close + Drain during shutdown
  - pkg/types - AdmissionKey, the (tenant, timestamp) identity Offer
    checks against
*/
package queue
