package main

import (
	"os"

	"github.com/vup-linux/vuru/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
