package daemon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const validConfig = `
config_version = 1
script_dirs    = [ "/scripts" ]
script_names   = [ "${NAME}.scrape" ]

[suites.weather]
jobs = [
  { name = "stockholm", script = "temperature", schedule = "*/5 * * * *", dedup = true },
]
`

func TestParseConfigValid(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(validConfig))
	require.NoError(t, err)
	require.Equal(t, 1, cfg.ConfigVersion)

	jobs := cfg.Jobs()
	require.Len(t, jobs, 1)
	require.Equal(t, "temperature", jobs[0].Script)
	require.True(t, jobs[0].Dedup)
}

func TestParseConfigRejectsUnsupportedVersion(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`config_version = 2`))
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestParseConfigRejectsUnknownTopLevelKey(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`
config_version = 1
bogus = "nope"
`))
	require.Error(t, err)
}

func TestParseConfigRejectsUnknownJobKey(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`
config_version = 1
[suites.x]
jobs = [ { script = "a", schedule = "* * * * *", bogus = true } ]
`))
	require.Error(t, err)
}

func TestParseConfigRequiresScript(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`
config_version = 1
[suites.x]
jobs = [ { schedule = "* * * * *" } ]
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "script")
}

func TestParseConfigRequiresSchedule(t *testing.T) {
	_, err := ParseConfig(strings.NewReader(`
config_version = 1
[suites.x]
jobs = [ { script = "a" } ]
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "schedule")
}
