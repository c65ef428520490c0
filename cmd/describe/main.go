package main

import (
	"os"

	"github.com/tender-barbarian/go-describe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
