package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/log"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/types"
	"github.com/rs/zerolog"
)

// Scanner walks {root}/{tenant}/{timestamp}/{nodes,relationships} and
// reports structurally-complete snapshots. A Scanner carries no memory
// between calls; de-duplication is the TaskQueue's job (spec §4.2,
// §4.3).
type Scanner struct {
	root   string
	logger zerolog.Logger
}

// New constructs a Scanner rooted at root.
func New(root string, logger zerolog.Logger) *Scanner {
	return &Scanner{root: root, logger: logger}
}

// Scan enumerates every tenant directory under root and, within each,
// every integer-named timestamp subdirectory that is structurally
// complete: it has both a nodes/ and a relationships/ subdirectory, each
// containing at least one entry. Non-integer directory names are
// skipped silently. Within a tenant, results are ordered by ascending
// timestamp so that catch-up on startup processes older snapshots
// first; ordering across tenants is unspecified.
func (s *Scanner) Scan() ([]types.DiscoveredSnapshot, error) {
	tenantEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	var discovered []types.DiscoveredSnapshot
	for _, tenantEntry := range tenantEntries {
		if !tenantEntry.IsDir() {
			continue
		}
		tenant := tenantEntry.Name()
		tenantPath := filepath.Join(s.root, tenant)

		snapshots, err := s.scanTenant(tenant, tenantPath)
		if err != nil {
			// A single unreadable tenant directory doesn't abort the
			// whole sweep; it's retried on the next scan.
			log.WithTenant(s.logger, tenant).Warn().Err(err).Msg("could not read tenant directory, will retry next scan")
			continue
		}
		discovered = append(discovered, snapshots...)
	}

	return discovered, nil
}

func (s *Scanner) scanTenant(tenant, tenantPath string) ([]types.DiscoveredSnapshot, error) {
	entries, err := os.ReadDir(tenantPath)
	if err != nil {
		return nil, err
	}

	var found []types.DiscoveredSnapshot
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ts, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil {
			continue // not a timestamp, not a snapshot
		}

		snapshotPath := filepath.Join(tenantPath, entry.Name())
		if !isComplete(snapshotPath) {
			continue // possibly incomplete write, retried on a later scan
		}

		found = append(found, types.DiscoveredSnapshot{
			Tenant:    tenant,
			Timestamp: ts,
			Path:      snapshotPath,
		})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Timestamp < found[j].Timestamp })
	return found, nil
}

// isComplete reports whether snapshotPath has both a nodes/ and a
// relationships/ subdirectory, each containing at least one entry.
func isComplete(snapshotPath string) bool {
	return hasNonEmptyDir(filepath.Join(snapshotPath, "nodes")) &&
		hasNonEmptyDir(filepath.Join(snapshotPath, "relationships"))
}

func hasNonEmptyDir(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	return len(entries) > 0
}
