package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scrapeycat/internal/effects"
	"scrapeycat/internal/engine"
	"scrapeycat/internal/fetch"
	"scrapeycat/internal/loader"
)

var runCmd = &cobra.Command{
	Use:   "run <script-name> [--positional VAL]... [--KEY=VAL]...",
	Short: "Execute a script once and dispatch its effects.",
	// No cobra Args validator here: parseRunArgs already rejects a
	// missing script name with an *ArgsError, and leaving that the sole
	// source of the error keeps exitCodeFor's classification (ExitArgs)
	// working for this case. A cobra.MinimumNArgs(1) validator would
	// reject it first with a generic, untyped error instead.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		script, positional, keyword, err := parseRunArgs(args)
		if err != nil {
			return err
		}

		tel := telemetryFrom(cmd.Context())

		l := loader.New(scriptDirsFromEnv(), scriptNamesFromEnv())
		client := fetch.New(tel)
		ex := engine.New(l, client)

		st, err := ex.Run(0, script, positional, keyword)
		if err != nil {
			return err
		}

		dispatcher := &effects.Dispatcher{
			Out: os.Stdout,
			Warn: func(warnErr error) {
				tel.ReportWarning("cli.run", warnErr)
			},
		}
		if err := dispatcher.DispatchAll(st.Effects); err != nil {
			return fmt.Errorf("dispatching effects: %w", err)
		}

		return nil
	},
}

// scriptDirsFromEnv reads SCRAPEYCAT_SCRIPT_DIRS, a colon-separated
// list, falling back to the working directory. One-shot `run` has no
// config file of its own — script_dirs/script_names are otherwise
// only configurable via the daemon's TOML config.
func scriptDirsFromEnv() []string {
	if raw := os.Getenv("SCRAPEYCAT_SCRIPT_DIRS"); raw != "" {
		return strings.Split(raw, ":")
	}
	return []string{"."}
}

func scriptNamesFromEnv() []string {
	if raw := os.Getenv("SCRAPEYCAT_SCRIPT_NAMES"); raw != "" {
		return strings.Split(raw, ":")
	}
	return []string{"${NAME}.scrape", "${NAME}"}
}
