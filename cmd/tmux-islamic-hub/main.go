// Command tmux-islamic-hub prints the next prayer on one line for a tmux
// status bar. It accepts the same flags as `islamic-hub next`.
package main

import (
	"fmt"
	"os"

	"github.com/smokyabdulrahman/islamic-hub/internal/cli"
	"github.com/smokyabdulrahman/islamic-hub/internal/logger"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	defer logger.Close()

	rootCmd := cli.NewRootCmd(version)
	rootCmd.SetArgs(statusArgs(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		logger.Error("status line failed", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		logger.Close()
		os.Exit(1)
	}
}

// statusArgs routes everything to the next subcommand, except the
// top-level version and help flags.
func statusArgs(args []string) []string {
	for _, a := range args {
		switch a {
		case "--version", "-v":
			return []string{"--version"}
		}
	}
	return append([]string{"next"}, args...)
}
