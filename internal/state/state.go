// Package state defines the hidden, per-run data model that scrapeycat's
// command library reads and mutates: the ordered results list, the
// variable map, the pending header list, and the queued effects. A
// State is never exposed to the hosted Lua script directly — commands
// close over a *State and are the only thing that can touch it.
package state

import (
	"sort"
	"strconv"
	"strings"
)

// Header is an ordered name/value pair. Ordering and duplicate names
// are preserved because the HTTP layer passes them through as-is.
type Header struct {
	Name  string
	Value string
}

// Effect is a queued side-effect record produced by the `effect`
// command. Two effects are structurally equal (for dedup purposes) iff
// Key() produces the same string.
type Effect struct {
	Name       string
	Positional []string
	Keyword    map[string]string
}

// Key returns a canonical string representation of the effect, used to
// compare effects for structural equality without relying on map
// identity. Keyword pairs are sorted by key so that insertion order
// doesn't affect the comparison.
func (e Effect) Key() string {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteByte('\x00')
	for _, p := range e.Positional {
		b.WriteString(p)
		b.WriteByte('\x00')
	}

	keys := make([]string, 0, len(e.Keyword))
	for k := range e.Keyword {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(e.Keyword[k])
		b.WriteByte('\x00')
	}

	return b.String()
}

// State is one execution's hidden, script-scoped state. It is created
// fresh at the start of every top-level `run` subcommand invocation and
// every sub-script invoked via the `run` command.
type State struct {
	Results   []string
	Variables map[string][]string
	Headers   []Header
	Effects   []Effect
	Aborted   bool

	// Depth is this run's position in the `run` call chain; the
	// top-level script is depth 1 (its caller is treated as depth 0).
	Depth int
}

// New returns a fresh, empty State at the given call depth.
func New(depth int) *State {
	return &State{
		Results:   nil,
		Variables: make(map[string][]string),
		Headers:   nil,
		Effects:   nil,
		Aborted:   false,
		Depth:     depth,
	}
}

// SeedArgs pre-populates Variables from a run's positional and keyword
// arguments, per spec: positional args become variables "1", "2", ...
// and keyword args become variables named by key.
func (s *State) SeedArgs(positional []string, keyword map[string]string) {
	for i, v := range positional {
		s.Variables[posArgName(i)] = []string{v}
	}
	for k, v := range keyword {
		s.Variables[k] = []string{v}
	}
}

func posArgName(i int) string {
	return strconv.Itoa(i + 1)
}

// JoinVar joins a variable's stored sequence with single spaces, the
// semantics `var()` and substitution both rely on.
func JoinVar(values []string) string {
	return strings.Join(values, " ")
}
