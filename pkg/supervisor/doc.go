/*
Package supervisor owns the full lifecycle of one blue/green loading
run: startup validation and probing, constructing and launching the
scanner, the worker pool, and the status publisher, and an orderly
shutdown sequence that bounds how long in-flight work gets to finish
(spec §4.5).

There is exactly one Supervisor per process. It is the only type in
this repository that starts goroutines other than the ones it directly
owns — scanner, workers, publisher, status HTTP server are all spawned
from inside Run and joined back together on shutdown.

# Architecture

	┌──────────────────────────── Supervisor.Run ─────────────────────────────┐
	│                                                                          │
	│  probeStartup (Ping + snapshot root stat)                               │
	│         │                                                               │
	│         ▼                                                               │
	│  ┌─────────────┐      Offer      ┌───────────┐   Take/Requeue  ┌──────┐ │
	│  │  runScanner │ ───────────────▶│   Queue   │ ───────────────▶│Worker│ │
	│  │ (1 goroutine)│     (ticker)    └───────────┘    × Workers N  │  ×N  │ │
	│  └─────────────┘                                                └──────┘│
	│         │                                                               │
	│         ▼                                                               │
	│  statusapi.Publisher — GET /status + GET /metrics, atomic file write    │
	│                                                                          │
	└──────────────────────────────────────────────────────────────────────────┘

# Startup sequence (spec §4.5 steps 1-2)

New validates cfg and wires the Supervisor to its external
collaborators (Loader, Catalog, HealthProbes) with zero I/O; Run then
performs the actual startup probes before spawning anything:

 1. probeStartup pings the database server and stats the configured
    snapshot root. Either failure aborts Run before any goroutine is
    started — there is nothing useful for a scanner or worker to do
    against an unreachable server or an inaccessible root.
 2. The HealthGate, Queue, and Stats are constructed.
 3. cfg.Workers workers are started, then the scanner's
    ticker loop, then the status publisher (and, if configured, an
    HTTP server serving the same data).

# Shutdown sequence (spec §4.5 steps 3-6)

Run blocks on stopCh (closed by the caller — cmd/supervisor wires this
to SIGINT/SIGTERM) and then:

 1. Stops the scanner immediately (close(scannerStopCh) + Wait) so no
    new tasks are offered once shutdown begins.
 2. Closes the Queue, then Drains it. Closing alone only rejects new
    Offer/Requeue calls; Drain is what actually discards
    queued-but-not-yet-taken tasks, per spec §4.5 step 3 — only the
    task each worker already holds gets to finish. Close and Drain
    are two separate calls, so a worker whose Take lands between them
    still receives and runs that one task.
 3. Waits for the worker pool up to cfg.ShutdownTimeout. If workers
    finish first, shutdown proceeds cleanly. If the timeout elapses
    first, workerStopCh is closed, which interrupts any worker
    currently sleeping in a retry backoff (pkg/worker's
    interruptibleSleep) so the remaining in-flight tasks abandon their
    retry rather than sleeping out the full backoff after the process
    has already decided to exit.
 4. Stops the status publisher and, if running, gracefully shuts down
    the HTTP server with its own short timeout.

# State

Supervisor.State() reports one of init, running, stopping, stopped —
purely observational, surfaced through statusapi.Source for the
/status endpoint; nothing in this package branches on it internally
beyond the transitions themselves.

# Usage

	sup, err := supervisor.New(cfg, loader, catalog, probes)
	if err != nil {
		return err
	}
	stopCh := make(chan struct{})
	go func() {
		<-signalCh
		close(stopCh)
	}()
	return sup.Run(ctx, stopCh, statusPath, httpAddr)

# See Also

  - pkg/scanner, pkg/queue, pkg/worker - the three components Run wires
    together
  - pkg/statusapi - the Source interface Supervisor implements
  - pkg/config - the Config this package validates and runs against
  - cmd/supervisor - constructs collaborators and calls Run
*/
package supervisor
