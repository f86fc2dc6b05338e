package main

import (
	"os"

	"github.com/abhisek/devtutor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
