package main

import (
	"os"

	"github.com/bsels/sembump/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
