// Package cli wires the command library, executor, loader, fetcher,
// and daemon scheduler behind the two cobra subcommands the spec's
// external interface names: `run` and `daemon`.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scrapeycat/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:           "scrapeycat",
	Short:         "scrapeycat runs and schedules web-scraping DSL scripts.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(daemonCmd)
}

// ExecuteContext runs the CLI and returns the process exit code,
// instead of calling os.Exit directly, so main stays a one-liner.
func ExecuteContext(ctx context.Context) int {
	tel := telemetry.API(telemetry.SlogAPI{})
	ctx = withTelemetry(ctx, tel)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

type telemetryKey struct{}

func withTelemetry(ctx context.Context, tel telemetry.API) context.Context {
	return context.WithValue(ctx, telemetryKey{}, tel)
}

func telemetryFrom(ctx context.Context) telemetry.API {
	if tel, ok := ctx.Value(telemetryKey{}).(telemetry.API); ok {
		return tel
	}
	return telemetry.SlogAPI{}
}
