package main

import (
	"os"

	"github.com/aerstatic/aer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
