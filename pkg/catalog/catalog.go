package catalog

import "context"

// Loader is the opaque bulk-ingest collaborator. Load reads columnar
// files from dataPath/nodes/** and dataPath/relationships/**, creates a
// server-side database "{tenant}-{timestamp}", feeds it and commits.
// Idempotence is not required: a failed Load may leave a partially
// created database behind, and a retried Load is expected to detect or
// clean up that prior state itself.
type Loader interface {
	Load(ctx context.Context, tenant string, timestamp int64, dataPath string) error
}

// NonRetryable is the interface a Loader error can implement to signal a
// permanent, non-retryable failure (spec §4.4 step 2, §7 "Permanent load
// failure"). An error that does not implement this interface is treated
// as transient.
type NonRetryable interface {
	NonRetryable() bool
}

// IsNonRetryable reports whether err was classified by the Loader as a
// permanent, structural failure that should not be retried.
func IsNonRetryable(err error) bool {
	nr, ok := err.(NonRetryable)
	return ok && nr.NonRetryable()
}

// Catalog is the alias/database management collaborator, per spec §6.
// Every operation is idempotent; DropAlias/DropDatabase tolerate
// "not found".
type Catalog interface {
	ListDatabases(ctx context.Context) ([]string, error)
	ListAliases(ctx context.Context) (map[string]string, error)
	SetAlias(ctx context.Context, alias, target string) error
	DropAlias(ctx context.Context, alias string) error
	DropDatabase(ctx context.Context, name string) error
}

// Probe is the value returned by a health-memory probe: either a
// measured value, or Unavailable when the server edition doesn't expose
// the probe at all (spec §9's "Polymorphism" design note: health-probe
// result {Available(value) | Unavailable}).
type Probe struct {
	available bool
	used      uint64
	total     uint64 // committed (heap) or max (page cache), depending on the probe
}

// Available constructs a Probe carrying a measured used/total pair.
func Available(used, total uint64) Probe {
	return Probe{available: true, used: used, total: total}
}

// Unavailable constructs a Probe signalling the server doesn't expose
// this measurement.
func Unavailable() Probe {
	return Probe{available: false}
}

// IsAvailable reports whether the probe carries a measurement.
func (p Probe) IsAvailable() bool { return p.available }

// UtilizationPercent returns used/total*100. Only meaningful when
// IsAvailable is true and total > 0.
func (p Probe) UtilizationPercent() float64 {
	if p.total == 0 {
		return 0
	}
	return float64(p.used) / float64(p.total) * 100
}

// HealthProbes is the read-only memory/connectivity collaborator the
// HealthGate queries, per spec §6.
type HealthProbes interface {
	// Ping performs a trivial round-trip against the server's system
	// catalog. A non-nil error means the server is unreachable.
	Ping(ctx context.Context) error

	// CountDatabases returns the total number of user databases.
	CountDatabases(ctx context.Context) (int, error)

	// HeapUsage returns the JVM heap used/committed, or Unavailable if
	// the server edition doesn't expose the probe.
	HeapUsage(ctx context.Context) (Probe, error)

	// PagecacheUsage returns the page-cache used/max, or Unavailable if
	// the server edition doesn't expose the probe.
	PagecacheUsage(ctx context.Context) (Probe, error)
}
