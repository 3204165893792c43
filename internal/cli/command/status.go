package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/blessfleet/internal/agent/statusserver"
	"github.com/yndnr/blessfleet/internal/cli/connection"
	"github.com/yndnr/blessfleet/internal/cli/output"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the active nodes of a running agent",
		Flags: append(outputFlags(), &cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "Agent status address (default: status.addr from the config)",
		}),
		Action: statusAction,
	}
}

// AgentStatus is the output of the status command.
type AgentStatus struct {
	Agent  string                      `json:"agent" yaml:"agent"`
	Health statusserver.HealthResponse `json:"health" yaml:"health"`
	Nodes  []statusserver.NodeView     `json:"nodes" yaml:"nodes"`
}

// Table implements output.Tabular.
func (s AgentStatus) Table(wide bool) *output.Table {
	t := &output.Table{}
	if wide {
		t.SetHeaders("NODE", "ACCOUNT", "ADDR")
	} else {
		t.SetHeaders("NODE", "ACCOUNT")
	}
	for _, n := range s.Nodes {
		if wide {
			addr := n.Addr
			if addr == "" {
				addr = "-"
			}
			t.AddRow(n.NodeID, n.Account, addr)
		} else {
			t.AddRow(n.NodeID, n.Account)
		}
	}
	return t
}

func statusAction(c *cli.Context) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	addr := c.String("addr")
	if addr == "" {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		addr = cfg.Status.Addr
	}
	if addr == "" {
		return fmt.Errorf("no status address: pass --addr or set status.addr")
	}

	client := connection.NewStatusClient(addr)
	health, err := client.Health(c.Context)
	if err != nil {
		return err
	}
	nodes, err := client.Nodes(c.Context)
	if err != nil {
		return err
	}

	status := AgentStatus{Agent: client.BaseURL(), Health: health, Nodes: nodes.Nodes}
	if format == output.FormatTable {
		fmt.Fprintf(c.App.Writer, "Agent %s: %s, %d active nodes, up %s\n\n",
			status.Agent, health.Status, health.ActiveNodes, health.Uptime)
	}
	return output.NewFormatter(format, c.Bool("wide")).Format(c.App.Writer, status)
}
