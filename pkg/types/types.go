package types

import "fmt"

// AdmissionKey uniquely identifies a snapshot by the pair the spec
// treats as the grouping key for de-duplication: (tenant, timestamp).
type AdmissionKey struct {
	Tenant    string
	Timestamp int64
}

func (k AdmissionKey) String() string {
	return fmt.Sprintf("%s-%d", k.Tenant, k.Timestamp)
}

// DatabaseName returns the server-side database name for this snapshot:
// "{tenant}-{timestamp}".
func (k AdmissionKey) DatabaseName() string {
	return fmt.Sprintf("%s-%d", k.Tenant, k.Timestamp)
}

// DiscoveredSnapshot is one structurally-complete snapshot directory
// found by the SnapshotScanner.
type DiscoveredSnapshot struct {
	Tenant    string
	Timestamp int64
	Path      string
}

// Key returns this snapshot's admission key.
func (d DiscoveredSnapshot) Key() AdmissionKey {
	return AdmissionKey{Tenant: d.Tenant, Timestamp: d.Timestamp}
}

// TaskState is the lifecycle state of a Task.
type TaskState string

const (
	TaskStateQueued    TaskState = "queued"
	TaskStateRunning   TaskState = "running"
	TaskStateRetrying  TaskState = "retrying"
	TaskStateCompleted TaskState = "completed"
	TaskStateAbandoned TaskState = "abandoned"
)

// Task is the unit of work a Worker drives from discovery to completion
// or abandonment, per spec §3.
type Task struct {
	Tenant    string
	Timestamp int64
	DataPath  string

	State      TaskState
	RetryCount int
	LastError  string
}

// Key returns this task's admission key.
func (t *Task) Key() AdmissionKey {
	return AdmissionKey{Tenant: t.Tenant, Timestamp: t.Timestamp}
}

// DatabaseName returns the server-side database name for this task's
// snapshot: "{tenant}-{timestamp}".
func (t *Task) DatabaseName() string {
	return t.Key().DatabaseName()
}

// DatabaseState is the lifecycle of a server-side database, per spec §3.
type DatabaseState string

const (
	DatabaseStateAbsent  DatabaseState = "absent"
	DatabaseStateLoading DatabaseState = "loading"
	DatabaseStatePresent DatabaseState = "present"
	DatabaseStateDropped DatabaseState = "dropped"
)

// Outcome is the closed, enumerated result of a worker's per-task
// attempt, per spec §9's "Polymorphism" design note: task outcome is
// {Completed | Retrying(delay) | Abandoned(reason)}.
type Outcome struct {
	Kind  OutcomeKind
	Delay int64 // seconds, only meaningful when Kind == OutcomeRetrying
	Cause string
}

// OutcomeKind enumerates the closed shape of Outcome.
type OutcomeKind int

const (
	OutcomeCompleted OutcomeKind = iota
	OutcomeRetrying
	OutcomeAbandoned
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeRetrying:
		return "retrying"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Completed builds an Outcome signalling the task finished successfully.
func Completed() Outcome { return Outcome{Kind: OutcomeCompleted} }

// Retrying builds an Outcome signalling the task should be re-enqueued
// after delaySeconds, recording cause for the task's LastError.
func Retrying(delaySeconds int64, cause string) Outcome {
	return Outcome{Kind: OutcomeRetrying, Delay: delaySeconds, Cause: cause}
}

// Abandoned builds an Outcome signalling the task exhausted its retry
// budget or hit a non-retryable load error, and will not be retried
// again this supervisor lifetime.
func Abandoned(cause string) Outcome {
	return Outcome{Kind: OutcomeAbandoned, Cause: cause}
}
