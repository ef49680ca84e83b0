package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/merlin-energy/merlinctl/pkg/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx, os.Args, version)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
