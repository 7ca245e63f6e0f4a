/*
Package types defines the data model shared across every package in
this module: the identity of a snapshot (AdmissionKey), what the
scanner reports finding (DiscoveredSnapshot), the unit of work a
worker drives to completion (Task) and its lifecycle states, and the
closed outcome shape a worker attempt can reach.

# Enums as named strings

TaskState and DatabaseState are string types rather than ints so log
lines and the /status JSON document render the state directly
("running", "retrying") with no separate stringer. This follows the
same idiom the rest of the tree uses for small closed enumerations.

# Outcome

Outcome models spec §9's "task outcome is {Completed | Retrying(delay)
| Abandoned(reason)}" design note as a single struct with a kind
discriminator rather than three separate types, since Go has no sum
types: OutcomeKind picks the case, Delay and Cause are populated only
when the kind makes them meaningful. pkg/worker constructs one at each
of the three terminal points in its state machine, primarily to carry
a stable Kind.String() into structured log fields.
*/
package types
