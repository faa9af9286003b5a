// Package loader resolves a script name to source text by searching
// configured directories with configured filename templates.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrScriptNotFound is returned when no directory/template combination
// yields an existing file.
type ErrScriptNotFound struct {
	Name string
}

func (e *ErrScriptNotFound) Error() string {
	return fmt.Sprintf("script not found: %s", e.Name)
}

// Loader resolves script names against a fixed set of directories and
// filename templates, both expanded before use: directories undergo
// ${VAR} environment expansion, filename templates have ${NAME}
// replaced with the requested script name.
type Loader struct {
	Dirs      []string
	Templates []string
}

// New constructs a Loader from raw config values.
func New(dirs, templates []string) *Loader {
	return &Loader{Dirs: dirs, Templates: templates}
}

// Resolve searches, in order, every (dir, template) pair and returns
// the source text of the first file that exists.
func (l *Loader) Resolve(name string) (string, error) {
	for _, dir := range l.Dirs {
		expandedDir := os.ExpandEnv(dir)

		for _, tmpl := range l.Templates {
			filename := strings.ReplaceAll(tmpl, "${NAME}", name)
			path := filepath.Join(expandedDir, filename)

			contents, err := os.ReadFile(path)
			if err == nil {
				return string(contents), nil
			}
			if !os.IsNotExist(err) {
				return "", err
			}
		}
	}

	return "", &ErrScriptNotFound{Name: name}
}
