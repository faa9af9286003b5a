// Package subst implements ${name} variable substitution, applied to
// every string argument of header, get, effect, and run before the
// command executes.
package subst

import (
	"fmt"
	"os"
	"regexp"

	"scrapeycat/internal/state"
)

var pattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ErrNotFound is returned (wrapped) when a referenced name resolves to
// neither a script variable nor an environment variable.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no such variable: %s", e.Name)
}

// Expand replaces every ${NAME} occurrence in text. Resolution order is
// the current script's variables (joined by spaces), then the process
// environment. A bare $ not followed by { is copied through literally,
// since the pattern only matches the ${...} form.
func Expand(text string, vars map[string][]string) (string, error) {
	var firstErr error

	result := pattern.ReplaceAllStringFunc(text, func(match string) string {
		if firstErr != nil {
			return match
		}

		name := match[2 : len(match)-1]

		if values, ok := vars[name]; ok {
			return state.JoinVar(values)
		}
		if value, ok := os.LookupEnv(name); ok {
			return value
		}

		firstErr = &ErrNotFound{Name: name}
		return match
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// ExpandAll applies Expand to every string in a slice, stopping at the
// first error.
func ExpandAll(texts []string, vars map[string][]string) ([]string, error) {
	out := make([]string, len(texts))
	for i, t := range texts {
		expanded, err := Expand(t, vars)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

// ExpandMap applies Expand to every value in a string map, stopping at
// the first error.
func ExpandMap(m map[string]string, vars map[string][]string) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		expanded, err := Expand(v, vars)
		if err != nil {
			return nil, err
		}
		out[k] = expanded
	}
	return out, nil
}
