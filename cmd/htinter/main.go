// Package main is the entry point for the htinter CLI.
//
// htinter is normally used as a library: a Go program registers handlers and
// starts the server. The binary serves a directory on its own, with the
// bridge script injected into every page, which is handy for working on the
// pages and stylesheets of an application.
//
// Usage:
//
//	htinter serve --root ./www           # Serve a directory
//	htinter serve -c htinter.yaml        # Serve with a config file
//	htinter validate -c htinter.yaml     # Validate configuration
//	htinter version                      # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "htinter",
	Short: "Drive browser pages from Go",
	Long: `htinter serves a directory of pages to a local browser and injects a
small bridge script into every .html page. The bridge forwards page loads,
clicks, key presses and timers to the server as GET requests and applies the
JSON replies to the page.

Quick start:
  1. Put an index.html in ./www
  2. Run: htinter serve --root ./www
  3. Open http://127.0.0.1:5080/index.html in your browser

Example config:
  address: 127.0.0.1
  port: 5080
  root: ./www
  log_level: debug
  metrics_address: 127.0.0.1:9090`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this htinter binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "htinter %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
