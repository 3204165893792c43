// Package command provides the blessfleet command-line interface.
//
// It uses urfave/cli/v2. Configuration flags are global; "run" starts the
// fleet, "nodes" lists each account's nodes without starting any
// supervisor, "config" prints the effective configuration with secrets
// masked and "status" queries a running agent's status endpoint.
package command
