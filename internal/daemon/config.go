// Package daemon is the scheduler: it parses a TOML configuration
// into a flat job list, drives each job off a cron expression via
// robfig/cron (the library vcassist-backend's chrono.StandardCron
// wraps), and dispatches each successful firing's effects through a
// per-job dedup filter.
package daemon

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// SupportedConfigVersion is the only config_version this daemon
// accepts.
const SupportedConfigVersion = 1

// ConfigError wraps any problem found while parsing or validating the
// daemon configuration file.
type ConfigError struct {
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %s", e.Detail, e.Err.Error())
	}
	return fmt.Sprintf("config error: %s", e.Detail)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// JobConfig is one entry of a suite's `jobs` array.
type JobConfig struct {
	Name     string            `toml:"name"`
	Script   string            `toml:"script"`
	Args     []string          `toml:"args"`
	Kwargs   map[string]string `toml:"kwargs"`
	Schedule string            `toml:"schedule"`
	Dedup    bool              `toml:"dedup"`
}

// SuiteConfig is a named grouping of jobs; it carries no runtime
// semantics beyond organization.
type SuiteConfig struct {
	Jobs []JobConfig `toml:"jobs"`
}

// Config is the parsed, as-yet-unvalidated daemon configuration.
type Config struct {
	ConfigVersion int                    `toml:"config_version"`
	ScriptDirs    []string               `toml:"script_dirs"`
	ScriptNames   []string               `toml:"script_names"`
	Suites        map[string]SuiteConfig `toml:"suites"`
}

// ParseConfig decodes and validates a daemon configuration from r.
// Unknown top-level or per-job keys are fatal, per the strict-config
// policy the spec calls for.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config

	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &ConfigError{Detail: "malformed TOML", Err: err}
	}

	if cfg.ConfigVersion != SupportedConfigVersion {
		return nil, &ConfigError{Detail: fmt.Sprintf("unsupported config_version %d (want %d)", cfg.ConfigVersion, SupportedConfigVersion)}
	}

	for suiteName, suite := range cfg.Suites {
		for i, j := range suite.Jobs {
			if j.Script == "" {
				return nil, &ConfigError{Detail: fmt.Sprintf("suites.%s.jobs[%d]: missing required field \"script\"", suiteName, i)}
			}
			if j.Schedule == "" {
				return nil, &ConfigError{Detail: fmt.Sprintf("suites.%s.jobs[%d]: missing required field \"schedule\"", suiteName, i)}
			}
		}
	}

	return &cfg, nil
}

// Jobs flattens every suite's jobs into the list the scheduler
// actually runs, stamping each with its originating suite name for
// diagnostics.
func (c *Config) Jobs() []Job {
	var jobs []Job
	for suiteName, suite := range c.Suites {
		for _, j := range suite.Jobs {
			jobs = append(jobs, NewJob(suiteName, j))
		}
	}
	return jobs
}
