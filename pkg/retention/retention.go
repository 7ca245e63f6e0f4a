package retention

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/catalog"
	"github.com/rs/zerolog"
)

// GC runs the retention policy against a live Catalog.
type GC struct {
	cat    catalog.Catalog
	keep   int
	logger zerolog.Logger
}

// New constructs a GC that keeps the `keep` most recent databases per
// tenant.
func New(cat catalog.Catalog, keep int, logger zerolog.Logger) *GC {
	return &GC{cat: cat, keep: keep, logger: logger}
}

// Run drops every database for tenant other than the Keep databases
// with the largest timestamps, never dropping aliasTarget even if it
// falls outside the top-K (a safety rail that should not trigger under
// the invariants of spec §3). Dropping is idempotent: databases already
// absent are ignored, per the Catalog contract (spec §6).
func (g *GC) Run(ctx context.Context, tenant, aliasTarget string) error {
	names, err := g.cat.ListDatabases(ctx)
	if err != nil {
		return fmt.Errorf("failed to list databases: %w", err)
	}

	timestamps := timestampsForTenant(names, tenant)
	if len(timestamps) <= g.keep {
		return nil
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] > timestamps[j] })
	toDrop := timestamps[g.keep:]

	for _, ts := range toDrop {
		name := fmt.Sprintf("%s-%d", tenant, ts)
		if name == aliasTarget {
			g.logger.Warn().
				Str("tenant", tenant).
				Str("database", name).
				Msg("retention declined to drop the current alias target")
			continue
		}
		if err := g.cat.DropDatabase(ctx, name); err != nil {
			return fmt.Errorf("failed to drop database %s: %w", name, err)
		}
		g.logger.Info().
			Str("tenant", tenant).
			Str("database", name).
			Msg("retention dropped database")
	}

	return nil
}

// timestampsForTenant extracts the timestamp suffix of every database
// name matching "{tenant}-{timestamp}".
func timestampsForTenant(names []string, tenant string) []int64 {
	prefix := tenant + "-"
	var out []int64
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		ts, err := strconv.ParseInt(strings.TrimPrefix(name, prefix), 10, 64)
		if err != nil {
			continue // not one of ours, e.g. a differently-named database that happens to share the prefix
		}
		out = append(out, ts)
	}
	return out
}
