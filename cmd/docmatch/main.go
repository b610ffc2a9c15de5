package main

import (
	"os"

	"github.com/knowledge-engine/docmatch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
