package main

import (
	"os"

	"github.com/reviewflow/reviewflow/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
