/*
Package catalog defines the external-collaborator seams the
supervisor is built against, per spec §6 and §9: Loader (the bulk
ingest engine), Catalog (database/alias management) and HealthProbes
(connectivity and memory-pressure readings).

Production wires these to pkg/neo4jcatalog's driver-backed Adapter;
every package-level test in this module substitutes small in-memory
fakes instead, so no test anywhere opens a real database connection.

# Probe

Probe models spec §9's "health-probe result {Available(value) |
Unavailable}" design note the same way pkg/types models Outcome: one
struct with an availability flag rather than a pointer or a (value,
bool, error) triple, so a HealthProbes implementation that can't read
a JMX MBean (older community-edition servers) returns Unavailable()
and the caller treats that as "no opinion", not as an error.

# See Also

  - pkg/neo4jcatalog - the concrete implementation of every interface here
  - pkg/health - the HealthGate consuming HealthProbes
  - pkg/worker - the Loader/Catalog consumer
*/
package catalog
