package daemon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scrapeycat/internal/state"
)

func TestFilterWithoutDedupPassesThrough(t *testing.T) {
	j := NewJob("s", JobConfig{Script: "x", Schedule: "* * * * *"})
	effectsIn := []state.Effect{{Name: "notify", Positional: []string{"X"}, Keyword: map[string]string{}}}

	require.Equal(t, effectsIn, j.Filter(effectsIn))
	require.Equal(t, effectsIn, j.Filter(effectsIn))
}

func TestFilterDedupDropsRepeatedEffectScenarioS6(t *testing.T) {
	j := NewJob("s", JobConfig{Script: "x", Schedule: "* * * * *", Dedup: true})
	notifyX := state.Effect{Name: "notify", Positional: []string{"X"}, Keyword: map[string]string{}}
	notifyY := state.Effect{Name: "notify", Positional: []string{"Y"}, Keyword: map[string]string{}}

	first := j.Filter([]state.Effect{notifyX})
	require.Len(t, first, 1)

	second := j.Filter([]state.Effect{notifyX})
	require.Empty(t, second)

	third := j.Filter([]state.Effect{notifyY})
	require.Len(t, third, 1)
	require.Equal(t, "Y", third[0].Positional[0])
}
