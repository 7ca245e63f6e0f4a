/*
Package neo4jcatalog is the concrete catalog.Catalog and
catalog.HealthProbes implementation backed by the graph database
server itself, using github.com/neo4j/neo4j-go-driver/v5.

# Architecture

	┌────────────────────────────────────────────────────────────┐
	│                          Adapter                             │
	│  Catalog:        ListDatabases, ListAliases, SetAlias,       │
	│                  DropAlias, DropDatabase                      │
	│  HealthProbes:   Ping, CountDatabases, HeapUsage,             │
	│                  PagecacheUsage                                │
	└───────────────────────────┬──────────────────────────────────┘
	                            │ all sessions scoped to "system"
	                            ▼
	┌────────────────────────────────────────────────────────────┐
	│                     system database                          │
	│  SHOW DATABASES · SHOW ALIASES FOR DATABASE ·                 │
	│  CREATE OR REPLACE ALIAS · DROP ALIAS · DROP DATABASE ·        │
	│  CALL dbms.queryJmx(...)                                       │
	└────────────────────────────────────────────────────────────┘

Every method opens its own session against the system database —
the only database in a multi-database deployment that accepts the
administrative DDL this package issues — and closes it before
returning. No session is held across calls; the driver's own
connection pool absorbs the per-call overhead.

# Alias cutover

CREATE OR REPLACE ALIAS is the single statement carrying the
blue/green cutover itself: it atomically repoints an existing alias
(or creates it, on the tenant's first successful load) at a new target
database, so a reader resolving the alias mid-cutover either sees the
old database or the new one, never neither.

# JMX probes degrade gracefully

HeapUsage and PagecacheUsage both route through jmxMemoryProbe, which
treats any failure to reach or parse the expected MBean shape —
missing attribute, unexpected value type, the query itself erroring —
as catalog.Unavailable() rather than a Go error. This is deliberate:
older or community-edition servers don't expose these MBeans at all,
and the health gate (pkg/health) already treats an unavailable probe
as inconclusive rather than unhealthy, so this package never needs to
distinguish "MBean absent" from "MBean shaped unexpectedly" for its
caller.

# See Also

  - pkg/catalog - the interfaces this package implements
  - pkg/health - the HealthGate consuming CountDatabases/HeapUsage/
    PagecacheUsage
  - pkg/worker - the Catalog consumer driving cutover and retention
*/
package neo4jcatalog
