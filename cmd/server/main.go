// Package main implements the careerforge command: the HTTP API server,
// schema migrations, and operator commands for cached artifacts.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
