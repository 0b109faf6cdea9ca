// Package main is the entry point for the quickstart CLI.
//
// quickstart provisions a GPU compute instance and bootstraps a
// two-service inference stack on it: a vLLM server exposing an
// OpenAI-compatible API and an Open WebUI chat frontend.
//
// Commands: deploy, status, teardown, version.
//
// For detailed usage information, run:
//
//	quickstart --help
package main

import (
	"fmt"
	"os"

	"github.com/linode/ai-quickstart-minstral/cmd/quickstart/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
