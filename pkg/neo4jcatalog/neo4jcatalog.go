package neo4jcatalog

import (
	"context"
	"fmt"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/catalog"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Adapter wraps a neo4j.DriverWithContext and implements both
// catalog.Catalog and catalog.HealthProbes against the "system"
// database, the only database that accepts administrative DDL.
type Adapter struct {
	driver neo4j.DriverWithContext
}

// New wraps an already-constructed driver. The caller owns the
// driver's lifecycle (Close).
func New(driver neo4j.DriverWithContext) *Adapter {
	return &Adapter{driver: driver}
}

func (a *Adapter) systemSession(ctx context.Context) neo4j.SessionWithContext {
	return a.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: "system"})
}

// ListDatabases returns every database name known to the server,
// including "system" and "neodb" — callers filter by tenant prefix.
func (a *Adapter) ListDatabases(ctx context.Context) ([]string, error) {
	session := a.systemSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, "SHOW DATABASES YIELD name RETURN name", nil)
	if err != nil {
		return nil, fmt.Errorf("show databases: %w", err)
	}

	var names []string
	for result.Next(ctx) {
		name, _ := result.Record().Get("name")
		if s, ok := name.(string); ok {
			names = append(names, s)
		}
	}
	return names, result.Err()
}

// ListAliases returns the current alias -> target-database mapping.
func (a *Adapter) ListAliases(ctx context.Context) (map[string]string, error) {
	session := a.systemSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, "SHOW ALIASES FOR DATABASE YIELD name, database RETURN name, database", nil)
	if err != nil {
		return nil, fmt.Errorf("show aliases: %w", err)
	}

	aliases := make(map[string]string)
	for result.Next(ctx) {
		record := result.Record()
		name, _ := record.Get("name")
		database, _ := record.Get("database")
		alias, ok1 := name.(string)
		target, ok2 := database.(string)
		if ok1 && ok2 {
			aliases[alias] = target
		}
	}
	return aliases, result.Err()
}

// SetAlias points alias at target, creating or replacing it
// atomically. This is the single statement that performs the
// blue/green cutover: readers resolving alias never see a gap.
func (a *Adapter) SetAlias(ctx context.Context, alias, target string) error {
	session := a.systemSession(ctx)
	defer session.Close(ctx)

	_, err := session.Run(ctx, "CREATE OR REPLACE ALIAS $alias FOR DATABASE $target",
		map[string]any{"alias": alias, "target": target})
	if err != nil {
		return fmt.Errorf("create or replace alias %s -> %s: %w", alias, target, err)
	}
	return nil
}

// DropAlias removes alias if present; dropping an absent alias is not
// an error (spec §6's idempotence requirement).
func (a *Adapter) DropAlias(ctx context.Context, alias string) error {
	session := a.systemSession(ctx)
	defer session.Close(ctx)

	_, err := session.Run(ctx, "DROP ALIAS $alias IF EXISTS FOR DATABASE", map[string]any{"alias": alias})
	if err != nil {
		return fmt.Errorf("drop alias %s: %w", alias, err)
	}
	return nil
}

// DropDatabase removes a retired snapshot's database. Dropping an
// absent database is not an error.
func (a *Adapter) DropDatabase(ctx context.Context, name string) error {
	session := a.systemSession(ctx)
	defer session.Close(ctx)

	_, err := session.Run(ctx, "DROP DATABASE $name IF EXISTS", map[string]any{"name": name})
	if err != nil {
		return fmt.Errorf("drop database %s: %w", name, err)
	}
	return nil
}

// Ping performs a trivial round-trip against the system database.
func (a *Adapter) Ping(ctx context.Context) error {
	session := a.systemSession(ctx)
	defer session.Close(ctx)

	_, err := session.Run(ctx, "RETURN 1", nil)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// CountDatabases returns the number of tenant-loaded databases toward
// the health gate's MaxDatabases budget (spec §4.1). "system" and
// "neodb" are the server's own built-in databases, never a tenant
// snapshot target, so neither counts against the budget even though
// ListDatabases reports both.
func (a *Adapter) CountDatabases(ctx context.Context) (int, error) {
	names, err := a.ListDatabases(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range names {
		if n != "system" && n != "neodb" {
			count++
		}
	}
	return count, nil
}

// HeapUsage reads HeapMemoryUsage from the server's JMX MBean. Older
// community-edition servers don't expose this MBean; that failure is
// folded into catalog.Unavailable rather than returned as an error, so
// the health gate never vetoes on a probe that simply doesn't exist.
func (a *Adapter) HeapUsage(ctx context.Context) (catalog.Probe, error) {
	return a.jmxMemoryProbe(ctx, "HeapMemoryUsage", "committed")
}

// PagecacheUsage reads the page-cache used/max pair from the server's
// JMX MBean, with the same Unavailable fallback as HeapUsage.
func (a *Adapter) PagecacheUsage(ctx context.Context) (catalog.Probe, error) {
	return a.jmxMemoryProbe(ctx, "PageCacheUsage", "max")
}

func (a *Adapter) jmxMemoryProbe(ctx context.Context, attribute, totalKey string) (catalog.Probe, error) {
	session := a.systemSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		"CALL dbms.queryJmx($query) YIELD attributes RETURN attributes[$attribute] AS value",
		map[string]any{"query": "org.neo4j:*", "attribute": attribute})
	if err != nil {
		return catalog.Unavailable(), nil
	}
	if !result.Next(ctx) {
		return catalog.Unavailable(), nil
	}

	value, _ := result.Record().Get("value")
	composite, ok := value.(map[string]any)
	if !ok {
		return catalog.Unavailable(), nil
	}
	used, uok := toUint64(composite["used"])
	total, tok := toUint64(composite[totalKey])
	if !uok || !tok {
		return catalog.Unavailable(), nil
	}
	return catalog.Available(used, total), nil
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}
