package main

import (
	"os"

	"github.com/bloomify/bloomify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
