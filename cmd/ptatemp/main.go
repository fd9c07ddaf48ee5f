package main

import (
	"os"

	"github.com/tfkr-ae/ptatemp/internal/cli"
)

// Set through ldflags at build time.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	os.Exit(cli.Execute(os.Stdout, os.Stderr, os.Args[1:], cli.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}))
}
