/*
Package scanner implements the SnapshotScanner: a pure function of
filesystem state that walks a configured root directory and reports
which (tenant, timestamp) snapshots are structurally complete and
ready to load.

A Scanner carries no memory of what it has reported before — every
call to Scan re-walks the whole tree from scratch. De-duplication
against previously-seen snapshots is deliberately not this package's
job; it belongs to the TaskQueue's admission set (pkg/queue), so a
Scanner can be constructed fresh, torn down, or run on a timer without
ever needing to persist or restore state across restarts.

# Architecture

	{root}/
	├── acme/                     ← tenant directory
	│   ├── 1700000000/           ← timestamp directory (snapshot)
	│   │   ├── nodes/
	│   │   │   └── Person/*.parquet
	│   │   └── relationships/
	│   │       └── KNOWS/*.parquet
	│   └── 1700000100/           ← newer snapshot, same tenant
	│       └── ...
	└── globex/
	    └── 1700000050/
	        └── ...

	Scan()
	  └─▶ for each tenant dir
	        └─▶ for each integer-named timestamp dir
	              └─▶ isComplete? (nodes/ and relationships/ both
	                   exist and are non-empty)
	                     └─▶ yes: DiscoveredSnapshot{tenant, ts, path}

# Completeness

A snapshot directory is reported only once both nodes/ and
relationships/ exist and each contains at least one entry. A loader
writes a snapshot's files incrementally (spec §4.2), so a
timestamp directory observed mid-write — say, nodes/ populated but
relationships/ still empty or absent — is silently skipped and picked
up on a later sweep once the write finishes. This is why
TestScan_BecomesCompleteBetweenScans exists: the same snapshot
directory transitions from invisible to discovered across two Scan
calls with no code change, just more files on disk.

# Ordering

Within one tenant, Scan returns snapshots sorted by ascending
timestamp, so a supervisor that's been offline reprocesses older
snapshots before newer ones once it catches up (spec §4.2 "Catch-up
semantics"). Ordering across different tenants is unspecified — the
scanner makes no promise about which tenant's directory entries
os.ReadDir happens to return first.

Non-integer directory names under a tenant (an in-progress write
using a temp name, an operator's stray file) are skipped silently,
not logged: this is expected, routine filesystem noise, not an error
condition.

# Error handling

An unreadable tenant directory (permissions, a transient NFS hiccup)
doesn't abort the whole sweep — Scan logs a warning tagged with that
tenant and moves on to the next one, relying on the next scheduled
scan to retry. Only a failure to read the root directory itself
returns a hard error, since there's nothing left to enumerate without
it.

# Usage

	s := scanner.New(cfg.DataPath, log.WithComponent("scanner"))
	found, err := s.Scan()
	if err != nil {
		// root directory itself unreadable
	}
	for _, snap := range found {
		queue.Offer(&types.Task{Tenant: snap.Tenant, Timestamp: snap.Timestamp, DataPath: snap.Path})
	}

# See Also

  - pkg/supervisor - runs Scan on a ticker (spec §4.5)
  - pkg/queue - de-duplicates what Scan reports via its admission set
  - pkg/types - DiscoveredSnapshot, the value Scan emits
*/
package scanner
