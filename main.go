package main

import (
	"os"

	"github.com/mathrush/mathrush/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
