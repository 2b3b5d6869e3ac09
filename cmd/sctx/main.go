package main

import (
	"os"

	"github.com/bnema/session-ctx-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
