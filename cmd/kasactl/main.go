package main

import (
	"os"

	"github.com/nakelabs/kasa-alert-connect/cmd/kasactl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
