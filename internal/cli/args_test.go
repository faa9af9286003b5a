package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRunArgsPositionalAndKeyword(t *testing.T) {
	script, positional, keyword, err := parseRunArgs([]string{"weather", "--positional", "Sweden", "--units=celsius"})
	require.NoError(t, err)
	require.Equal(t, "weather", script)
	require.Equal(t, []string{"Sweden"}, positional)
	require.Equal(t, map[string]string{"units": "celsius"}, keyword)
}

func TestParseRunArgsScriptNameOnly(t *testing.T) {
	script, positional, keyword, err := parseRunArgs([]string{"weather"})
	require.NoError(t, err)
	require.Equal(t, "weather", script)
	require.Empty(t, positional)
	require.Empty(t, keyword)
}

func TestParseRunArgsMissingScriptName(t *testing.T) {
	_, _, _, err := parseRunArgs(nil)
	require.Error(t, err)
	var argsErr *ArgsError
	require.ErrorAs(t, err, &argsErr)
}

func TestParseRunArgsMalformedFlag(t *testing.T) {
	_, _, _, err := parseRunArgs([]string{"weather", "--bogus"})
	require.Error(t, err)
}

func TestParseRunArgsPositionalMissingValue(t *testing.T) {
	_, _, _, err := parseRunArgs([]string{"weather", "--positional"})
	require.Error(t, err)
}

func TestParseRunArgsBareKeywordScenarioS5(t *testing.T) {
	script, positional, keyword, err := parseRunArgs([]string{"temperature", "location=Sweden/Stockholm"})
	require.NoError(t, err)
	require.Equal(t, "temperature", script)
	require.Empty(t, positional)
	require.Equal(t, map[string]string{"location": "Sweden/Stockholm"}, keyword)
}

func TestParseRunArgsBareKeywordAndFlagFormsMixed(t *testing.T) {
	_, positional, keyword, err := parseRunArgs([]string{"weather", "--positional", "Sweden", "units=celsius", "--debug=true"})
	require.NoError(t, err)
	require.Equal(t, []string{"Sweden"}, positional)
	require.Equal(t, map[string]string{"units": "celsius", "debug": "true"}, keyword)
}

func TestParseRunArgsPlainTokenIsPositional(t *testing.T) {
	_, positional, keyword, err := parseRunArgs([]string{"weather", "Stockholm"})
	require.NoError(t, err)
	require.Equal(t, []string{"Stockholm"}, positional)
	require.Empty(t, keyword)
}
