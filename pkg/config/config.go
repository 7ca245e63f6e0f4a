package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the supervisor's full runtime configuration.
type Config struct {
	DataPath          string        `yaml:"snapshotRoot"`
	Workers           int           `yaml:"workers"`
	ScanInterval      time.Duration `yaml:"scanInterval"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
	RetentionKeep     int           `yaml:"retentionKeep"`
	MaxRetries        int           `yaml:"maxRetries"`
	RetryBackoffBase  float64       `yaml:"retryBackoffBase"`
	HealthCheckRetry  time.Duration `yaml:"healthCheckRetryDelay"`
	MaxDatabases      int           `yaml:"maxDatabases"`
	HeapThresholdPct  float64       `yaml:"heapThresholdPercent"`
	PagecacheThresPct float64       `yaml:"pagecacheThresholdPercent"`
	ProbeTimeout      time.Duration `yaml:"probeTimeout"`

	Neo4jURI      string `yaml:"neo4jUri"`
	Neo4jUsername string `yaml:"neo4jUsername"`
	Neo4jPassword string `yaml:"neo4jPassword"`

	StatusAddr string `yaml:"statusAddr"`
}

// Default returns a Config populated with the teacher-style sane
// defaults, before the caller overlays a YAML file on top.
func Default() Config {
	return Config{
		Workers:           4,
		ScanInterval:      30 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		RetentionKeep:     3,
		MaxRetries:        5,
		RetryBackoffBase:  2,
		HealthCheckRetry:  15 * time.Second,
		MaxDatabases:      100,
		HeapThresholdPct:  90,
		PagecacheThresPct: 95,
		ProbeTimeout:      10 * time.Second,
		Neo4jURI:          "bolt://localhost:7687",
		Neo4jUsername:     "neo4j",
		StatusAddr:        ":8080",
	}
}

// Load reads and parses the YAML file at path on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigError aggregates every validation violation found in a single
// pass, so an operator sees all of them at once rather than
// fixing-and-rerunning one at a time.
type ConfigError struct {
	Violations []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Violations, "; "))
}

// Validate checks every field against the constraints spec §4.5 step 1
// requires before the supervisor is allowed to start.
func (c Config) Validate() error {
	var violations []string

	if c.DataPath == "" {
		violations = append(violations, "snapshotRoot must be set")
	}
	if c.Workers < 1 {
		violations = append(violations, "workers must be >= 1")
	}
	if c.ScanInterval <= 0 {
		violations = append(violations, "scanInterval must be > 0")
	}
	if c.ShutdownTimeout <= 0 {
		violations = append(violations, "shutdownTimeout must be > 0")
	}
	if c.RetentionKeep < 1 {
		violations = append(violations, "retentionKeep must be >= 1")
	}
	if c.MaxRetries < 0 {
		violations = append(violations, "maxRetries must be >= 0")
	}
	if c.RetryBackoffBase < 1 {
		violations = append(violations, "retryBackoffBase must be >= 1")
	}
	if c.HeapThresholdPct < 0 || c.HeapThresholdPct > 100 {
		violations = append(violations, "heapThresholdPercent must be within 0..100")
	}
	if c.PagecacheThresPct < 0 || c.PagecacheThresPct > 100 {
		violations = append(violations, "pagecacheThresholdPercent must be within 0..100")
	}
	if c.Neo4jURI == "" {
		violations = append(violations, "neo4jUri must be set")
	}
	if c.ProbeTimeout <= 0 {
		violations = append(violations, "probeTimeout must be > 0")
	}
	if c.HealthCheckRetry <= 0 {
		violations = append(violations, "healthCheckRetryDelay must be > 0")
	}

	if len(violations) > 0 {
		return &ConfigError{Violations: violations}
	}
	return nil
}
