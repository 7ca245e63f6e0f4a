/*
Package log provides the supervisor's structured logging, a thin
wrapper over zerolog with a package-level global Logger and a small
set of child-logger constructors that attach the fields the rest of
the tree correlates on.

# Composition model

WithComponent starts a new lineage from the global Logger; every
long-running collaborator calls it exactly once at construction time:

	logger: log.WithComponent("worker")

WithTenant, WithSnapshot and WithTaskID instead take an existing
logger as their base and layer one more field onto it, so a call site
builds up context incrementally instead of re-declaring the component
field every time:

	base := log.WithComponent("worker")
	...
	logger := log.WithTaskID(log.WithSnapshot(base, task.Tenant, task.Timestamp), corr)

A single log line produced this way carries component, tenant,
timestamp and task_id together, so every line touching one retry
attempt of one snapshot can be grepped out of a mixed-component stream.

# Configuration

Init(Config) sets the global log level and output format once, at
process startup, from the values the supervisor's --log-level /
--log-json flags (cmd/supervisor) resolve to. JSONOutput selects
zerolog's raw JSON encoder for machine consumption; the console
encoder (zerolog.ConsoleWriter, RFC3339 timestamps) is the human-
readable default for local runs.
*/
package log
