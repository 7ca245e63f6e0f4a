/*
Package worker implements the retry engine: the state machine that
turns one queued snapshot task into either a completed load with an
alias cutover, or an abandoned task with a recorded reason, retrying
transient failures with exponential backoff along the way (spec §4.4).

# Architecture

	┌──────────┐  Take()   ┌──────────────────────────────────────┐
	│  Queue   │ ────────▶ │               Worker                 │
	└──────────┘           │                                      │
	                       │  1. HealthGate.Check                  │
	                       │  2. Loader.Load                       │
	                       │  3. cutover (alias + retention GC)     │
	                       └───────┬──────────────────┬────────────┘
	                  veto/failure │                  │ success
	                               ▼                  ▼
	                         backoff + Requeue   stats.IncCompleted
	                       (or abandon if MaxRetries exhausted)

Each Worker runs its own goroutine pulling from the same shared Queue;
the supervisor starts config.Config.Workers of them side by side, so
the engine's concurrency story is N independent instances of this one
state machine racing to Take the next task, not a single scheduler
dispatching to them.

# The process() flow

process implements spec §4.4 exactly:

 1. Health gate check. A veto increments the retry count (unless
    MaxRetries is already exhausted, in which case the task is
    abandoned immediately) and reschedules after
    Config.HealthCheckRetryDelay — a fixed delay, not exponential,
    since a health veto is about server capacity, not task-specific
    failure.
 2. Load. A NonRetryable error (see pkg/catalog) abandons the task on
    the spot, on the theory that retrying a permanently-rejected
    snapshot (bad file format, schema violation) only wastes load
    attempts. Any other error retries with exponential backoff, unless
    MaxRetries is already exhausted.
 3. Cutover. Once Load succeeds, process re-reads the live database
    list and only moves the tenant's alias if this task's timestamp is
    still the newest loaded one for that tenant — the "latest-wins"
    rule (spec §5 "Ordering guarantees"). A worker that was slow and
    lost the race to a newer snapshot logs and declines, rather than
    moving the alias backward.
 4. Retention GC. Runs unconditionally after cutover, success or
    decline, keeping only the Config.RetentionKeep most recent
    databases per tenant and never dropping whatever the alias
    currently points at (pkg/retention).

A failure in step 3 or 4 does not re-run the load: the data is already
correctly loaded, so the next snapshot discovered for that tenant is
what drives convergence, per spec §7's reconciliation policy — there's
no separate repair path for a stuck alias.

# Backoff

	delay = min(backoffCap, RetryBackoffBase^(retryCount+1) seconds)

backoffCap (300s) bounds the exponential curve at the 9th or so retry
depending on RetryBackoffBase; the original design left this
unbounded, which this repository intentionally changes (see
SPEC_FULL.md's redesign notes) since an uncapped exponential backoff
on a blue/green loader can leave a stuck snapshot retrying hours apart.

interruptibleSleep races the backoff timer against the worker's
stopCh, so a supervisor shutdown interrupts a worker mid-backoff
instead of waiting out the full sleep before noticing the stop signal.
An interrupted sleep skips the Requeue entirely — the queue is already
being torn down, so there's nothing to gain from re-enqueueing.

# Correlation

Every process() call mints a fresh UUID (corr) and threads it through
log.WithSnapshot + log.WithTaskID so every log line for one retry
attempt — including the lines logged deep inside cutover — carries
component=worker, tenant, timestamp and task_id together. Retries of
the same snapshot get distinct task_ids, so two attempts interleaved
in a shared log stream are still separable.

# Usage

	w := worker.New(id, q, gate, loader, cat, stats, worker.Config{
		HealthCheckRetryDelay: 30 * time.Second,
		MaxRetries:            5,
		RetryBackoffBase:      2.0,
		RetentionKeep:         3,
	}, stopCh)
	go w.Run()

# See Also

  - pkg/health - the HealthGate this package checks before every load
  - pkg/catalog - Loader and Catalog, the external collaborators
  - pkg/retention - the GC run after every successful cutover decision
  - pkg/queue - Take/Requeue, the task source and retry sink
*/
package worker
