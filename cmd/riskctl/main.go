// Package main is the riskctl command line front-end of the risk engine.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/aristath/cryptorisk/internal/cli"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cli.Register(commander, os.Stdin, os.Stdout)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
