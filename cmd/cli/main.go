package main

import (
	"os"

	"github.com/vidysea/notes/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
