/*
Package health implements the supervisor's HealthGate: a read-only,
advisory preflight check of whether the database server can safely
accept another bulk load right now.

A worker calls Gate.Check once, immediately before every Load attempt
(including retries), never once per snapshot. It is advisory rather
than authoritative: when a probe is unavailable the gate leans toward
"proceed", because false positives (blocking loads the server could
actually handle) are worse than occasionally starting a load the
server was already struggling with.

# Architecture

	┌────────────────────────────────────────────────────────┐
	│                        Worker                           │
	└──────────────────────┬───────────────────────────────────┘
	                       │ Check(ctx)
	                       ▼
	┌────────────────────────────────────────────────────────┐
	│                          Gate                            │
	│  1. Ping                  — connectivity                 │
	│  2. CountDatabases        — capacity                     │
	│  3. HeapUsage             - memory pressure               │
	│  4. PagecacheUsage        - cache pressure                 │
	└──────────────────────┬───────────────────────────────────┘
	                       │ catalog.HealthProbes
	                       ▼
	┌────────────────────────────────────────────────────────┐
	│                   pkg/neo4jcatalog                       │
	│      SHOW DATABASES · CALL dbms.queryJmx(...)             │
	└────────────────────────────────────────────────────────┘

# Check order and short-circuiting

The four checks run in a fixed order and stop at the first failure:

 1. Connectivity — Ping against the system database. An error here
    fails the gate outright; nothing downstream can be trusted.
 2. Database count — CountDatabases against MaxDatabases. The
    comparison is skipped when MaxDatabases <= 0 (unbounded); the count
    is still queried, and a query error fails the gate.
 3. Heap utilization — HeapUsage against HeapThresholdPercent.
 4. Page-cache utilization — PagecacheUsage against
    PagecacheThresholdPercent.

Steps 3 and 4 treat an unavailable probe (an older community-edition
server without the JMX MBean, or a probe call that itself errored) as
inconclusive, not as a failure: the gate records a note ("heap probe
unavailable") but still returns healthy=true if nothing else failed.
Community-edition deployments therefore run with steps 1-2 as their
only enforced gate.

# Result

Check returns (healthy bool, reason string) and never an error: a
connectivity or database-count probe failure becomes a negative
verdict with an explanatory reason rather than bubbling up a Go error,
since the gate's job is a yes/no decision for the worker, not
diagnostics for the caller. The worker reads reason only on a veto: it
logs it and feeds it into
task.LastError so the eventual abandonment (if retries run out)
carries the last health explanation forward.

# Configuration

	type Config struct {
		MaxDatabases              int
		HeapThresholdPercent      float64
		PagecacheThresholdPercent float64
		Timeout                   time.Duration
	}

Timeout bounds each call to Check as a whole (all four probes share
one context deadline, defaulting to 10s), not each individual probe.

# Usage

	gate := health.NewGate(probes, health.Config{
		MaxDatabases:              200,
		HeapThresholdPercent:      90,
		PagecacheThresholdPercent: 95,
		Timeout:                   5 * time.Second,
	}, log.WithComponent("health"))

	healthy, reason := gate.Check(ctx)
	if !healthy {
		// retry later, or abandon once retries are exhausted
	}

# See Also

  - pkg/neo4jcatalog - concrete HealthProbes implementation
  - pkg/worker - calls Check before every load attempt
  - pkg/catalog - the HealthProbes interface this package depends on
*/
package health
