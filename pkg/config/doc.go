/*
Package config loads and validates the supervisor's YAML configuration
file, following the struct-tagged yaml.Unmarshal pattern the teacher
uses for its own resource manifests.

# Defaults then overlay

Load always starts from Default() and unmarshals the YAML file on top,
so an operator's config file only needs to set the fields it wants to
override — omitting retentionKeep, say, leaves the built-in default of
3 in place rather than zeroing it out.

# Validation

Validate runs every constraint in one pass and aggregates every
violation it finds into a single ConfigError rather than returning on
the first failure, so `supervisor run --config bad.yaml` reports every
problem at once instead of operator-fixes-one, reruns, finds the next
one.

# Usage

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err // *ConfigError, lists every violation
	}

# See Also

  - cmd/supervisor - the run command calls Validate after Load; its
    --config flag selects the file, and no flag overrides a Config field
  - pkg/supervisor - calls Validate again, redundantly but cheaply,
    inside supervisor.New
*/
package config
