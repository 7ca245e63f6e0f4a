/*
Package statusapi publishes the supervisor's externally-observable
status: a JSON document rewritten atomically on a fixed tick, plus the
HTTP server that exposes the same document and the Prometheus /metrics
handler side by side, following the teacher's mux-wiring pattern in
cmd/warren/main.go.

# Two outputs, one source of truth

Each tick, Publisher.publishOnce reads both the Supervisor (via the
Source interface — queue size, worker count, lifecycle state) and the
shared Stats collector (pkg/metrics), assembles one Status value, and
publishes it two ways: stored in an atomic.Pointer for GET /status to
serve instantly, and written to disk via a temp-file-then-rename so a
reader of the status file on disk never observes a half-written
document, even if a process crash lands mid-write.

# Disk writes are best-effort

A failure writing the status file (disk full, permissions) is logged
at debug level by publishOnce and otherwise ignored — the in-memory copy Current
returns is unaffected, and an operator monitoring only the HTTP
endpoint never notices a disk-level problem that isn't otherwise
affecting the supervisor.

# See Also

  - pkg/supervisor - implements Source, starts Publisher.Start
  - pkg/metrics - Stats (feeds Status fields) and Handler (mounted at
    /metrics)
*/
package statusapi
