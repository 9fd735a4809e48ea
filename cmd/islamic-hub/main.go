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
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defer logger.Close()

	rootCmd := cli.NewRootCmd(version)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
