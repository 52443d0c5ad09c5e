package main

import (
	"integral-solver/internal/cli"
	"os"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
