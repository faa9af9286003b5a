package main

import (
	"context"
	"os"

	"scrapeycat/internal/cli"
)

func main() {
	os.Exit(cli.ExecuteContext(context.Background()))
}
