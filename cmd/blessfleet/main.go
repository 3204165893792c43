// Package main provides the entry point for blessfleet.
//
// blessfleet keeps every node of every configured Bless account
// registered, in session and heartbeating until it is interrupted.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/blessfleet/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
