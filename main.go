package main

import (
	"os"

	"github.com/helpdeskhq/waverly/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
