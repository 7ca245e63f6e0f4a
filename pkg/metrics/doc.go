/*
Package metrics exposes the supervisor's Prometheus instrumentation
and the mutex-guarded Stats the status publisher reads from — two
separate ways of observing the same events, kept deliberately
separate.

# Two collectors, one set of events

Every task event (discovered, completed, failed, retried) increments
both a Prometheus counter here and a Stats field (stats.go) in the
same call. A health-gate veto increments only its Prometheus counter;
in Stats it just refreshes the last-activity time. Prometheus's registry is for
scraping into a time-series backend; Stats exists because the /status
JSON document (pkg/statusapi) needs plain Go values it can marshal
directly, and reading Prometheus's internal collector state back out
as typed Go values is not something client_golang is built for.

# Metric naming

All metric names share the supervisor_ prefix and a _total suffix for
counters, following Prometheus's own naming conventions — the same
convention the teacher's pkg/metrics uses for its container-lifecycle
counters.

# See Also

  - pkg/statusapi - Handler is mounted at /metrics; Stats.Snapshot feeds
    /status
  - pkg/worker, pkg/supervisor - the callers incrementing these metrics
*/
package metrics
