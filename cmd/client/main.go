package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/mailcheck/internal/client/cli"
	"github.com/iudanet/mailcheck/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := cli.New(iocli.NewStdio(), cli.BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	})

	code := app.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
