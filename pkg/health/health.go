package health

import (
	"context"
	"fmt"
	"time"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/catalog"
	"github.com/rs/zerolog"
)

// Config holds the thresholds the gate evaluates against.
type Config struct {
	// MaxDatabases fails the gate once the server's user-database count
	// reaches this value.
	MaxDatabases int

	// HeapThresholdPercent fails the gate once used/committed heap
	// utilization reaches this percentage, if the probe is available.
	HeapThresholdPercent float64

	// PagecacheThresholdPercent fails the gate once used/max page-cache
	// utilization reaches this percentage, if the probe is available.
	PagecacheThresholdPercent float64

	// Timeout bounds one whole Check call — all four probes share a
	// single deadline, not one each.
	Timeout time.Duration
}

// Gate is the HealthGate: it decides whether the database server can
// safely accept a new bulk load right now. It performs read-only probes
// only — Check never mutates server state.
type Gate struct {
	probes catalog.HealthProbes
	config Config
	logger zerolog.Logger
}

// NewGate constructs a HealthGate over the given probe collaborator.
func NewGate(probes catalog.HealthProbes, cfg Config, logger zerolog.Logger) *Gate {
	return &Gate{probes: probes, config: cfg, logger: logger}
}

// Check runs the four preflight checks in order, short-circuiting on the
// first failure, per spec §4.1:
//  1. Connectivity — a round-trip against the system catalog.
//  2. Database count — fails if at or above MaxDatabases.
//  3. Heap utilization — fails if at or above HeapThresholdPercent;
//     an unavailable probe is inconclusive, never a failure.
//  4. Page-cache utilization — same policy as heap.
//
// Check never returns an error: connectivity and database-count probe
// failures are folded into a negative verdict with an explanatory
// reason, and heap/page-cache probe failures are noted as unavailable,
// since the gate is advisory, not authoritative (spec §4.1 rationale).
func (g *Gate) Check(ctx context.Context) (healthy bool, reason string) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()

	if err := g.probes.Ping(ctx); err != nil {
		return false, fmt.Sprintf("unreachable: %v", err)
	}

	count, err := g.probes.CountDatabases(ctx)
	if err != nil {
		return false, fmt.Sprintf("unreachable: %v", err)
	}
	if g.config.MaxDatabases > 0 && count >= g.config.MaxDatabases {
		return false, fmt.Sprintf("too many databases (%d >= %d)", count, g.config.MaxDatabases)
	}

	var notes []string

	heap, err := g.probes.HeapUsage(ctx)
	if err != nil {
		g.logger.Debug().Err(err).Msg("heap probe error, treating as unavailable")
		notes = append(notes, "heap probe unavailable")
	} else if !heap.IsAvailable() {
		notes = append(notes, "heap probe unavailable")
	} else if pct := heap.UtilizationPercent(); pct >= g.config.HeapThresholdPercent {
		return false, fmt.Sprintf("heap utilization too high (%.1f%% >= %.1f%%)", pct, g.config.HeapThresholdPercent)
	}

	pagecache, err := g.probes.PagecacheUsage(ctx)
	if err != nil {
		g.logger.Debug().Err(err).Msg("pagecache probe error, treating as unavailable")
		notes = append(notes, "pagecache probe unavailable")
	} else if !pagecache.IsAvailable() {
		notes = append(notes, "pagecache probe unavailable")
	} else if pct := pagecache.UtilizationPercent(); pct >= g.config.PagecacheThresholdPercent {
		return false, fmt.Sprintf("pagecache utilization too high (%.1f%% >= %.1f%%)", pct, g.config.PagecacheThresholdPercent)
	}

	if len(notes) > 0 {
		return true, joinNotes(notes)
	}
	return true, "healthy"
}

func (g *Gate) timeout() time.Duration {
	if g.config.Timeout > 0 {
		return g.config.Timeout
	}
	return 10 * time.Second
}

func joinNotes(notes []string) string {
	out := notes[0]
	for _, n := range notes[1:] {
		out += "; " + n
	}
	return out
}
