package main

import (
	"os"

	"github.com/rustyeddy/capital/cmd/capital/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
