package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scrapeycat/internal/cliutil"
	"scrapeycat/internal/daemon"
	"scrapeycat/internal/effects"
	"scrapeycat/internal/engine"
	"scrapeycat/internal/fetch"
	"scrapeycat/internal/loader"
)

var daemonDebug bool

var daemonCmd = &cobra.Command{
	Use:   "daemon <config-file>",
	Short: "Load a TOML config and run the cron scheduler forever.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tel := telemetryFrom(cmd.Context())

		f, err := os.Open(args[0])
		if err != nil {
			return &daemon.ConfigError{Detail: "could not open config file", Err: err}
		}
		defer f.Close()

		cfg, err := daemon.ParseConfig(f)
		if err != nil {
			return err
		}

		l := loader.New(cfg.ScriptDirs, cfg.ScriptNames)
		client := fetch.New(tel)
		ex := engine.New(l, client)

		dispatcher := &effects.Dispatcher{
			Out: os.Stdout,
			Warn: func(warnErr error) {
				tel.ReportWarning("daemon", warnErr)
			},
		}

		sched := daemon.NewScheduler(ex, dispatcher, tel)
		if err := sched.AddJobs(cfg.Jobs()); err != nil {
			return err
		}

		if daemonDebug {
			fmt.Fprintf(os.Stderr, "scrapeycat daemon: scheduled %d job(s)\n", len(cfg.Jobs()))
		}

		sched.Start()

		ctx := cliutil.SignalContext()
		<-ctx.Done()

		sched.Stop(ctx)
		return nil
	},
}

func init() {
	daemonCmd.Flags().BoolVar(&daemonDebug, "debug", false, "log extra scheduling diagnostics to stderr")
}
