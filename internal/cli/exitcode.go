package cli

import (
	"errors"

	"scrapeycat/internal/daemon"
)

// Exit codes, per the driver's external-interface contract.
const (
	ExitSuccess     = 0
	ExitRuntime     = 1
	ExitArgs        = 2
	ExitConfigError = 3
)

// exitCodeFor classifies err into one of the documented exit codes.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var argsErr *ArgsError
	if errors.As(err, &argsErr) {
		return ExitArgs
	}

	var cfgErr *daemon.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}

	return ExitRuntime
}
