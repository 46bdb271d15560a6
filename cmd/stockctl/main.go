package main

import (
	"os"

	"github.com/stockdesk/stockdesk/cmd/stockctl/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
