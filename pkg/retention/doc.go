/*
Package retention implements the top-K-by-timestamp database GC
policy that runs after every successful alias cutover decision: keep
the Keep most recent databases per tenant at rest, drop the rest, and
never drop whatever the tenant's alias currently points at.

# Why the alias-target guard exists

The top-K selection and the live alias are computed from two different
reads of catalog state taken moments apart (ListDatabases inside Run,
ListAliases by the caller beforehand in pkg/worker's cutover). A race
between a concurrent cutover and this GC's own Run could, in
principle, have the current alias target fall outside the top-K by the
time Run executes. Run treats that as a sign to skip dropping that one
database and log a warning, not as an invariant violation worth
failing the whole GC pass over — per spec §3, the alias target must
never be dropped, full stop.

# Idempotence

Dropping an already-absent database is not an error (pkg/neo4jcatalog
implements DROP DATABASE ... IF EXISTS), so Run can be re-run after a
partial failure — say, it drops two of three candidates and then the
context deadline expires — without needing to track what it already
dropped.

# See Also

  - pkg/worker - calls Run once per task, after the cutover decision
  - pkg/catalog - the Catalog interface this package depends on
*/
package retention
