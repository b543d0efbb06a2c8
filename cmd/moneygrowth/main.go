// Package main provides the entry point for moneygrowth.
//
// moneygrowth is the command-line client for the MoneyGrowth personal
// finance backend. It runs one command per invocation, or an interactive
// session when started on a terminal without arguments.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yndnr/moneygrowth-go/internal/cli/command"
	"github.com/yndnr/moneygrowth-go/internal/infra/shutdown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	app := command.App()

	closer := shutdown.NewHandler(5 * time.Second)
	closer.OnShutdown("session", func(context.Context) error {
		return command.Close(app)
	})

	err := app.RunContext(ctx, os.Args)
	if cerr := closer.Run(); cerr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", cerr)
	}
	return err
}
