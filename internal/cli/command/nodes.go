package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yndnr/blessfleet/internal/cli/output"
	"github.com/yndnr/blessfleet/internal/core/domain"
	"github.com/yndnr/blessfleet/internal/gateway"
)

// NodesCommand returns the nodes command.
func NodesCommand() *cli.Command {
	return &cli.Command{
		Name:   "nodes",
		Usage:  "List the nodes of every account without starting them",
		Flags:  outputFlags(),
		Action: nodesAction,
	}
}

// AccountNodes is one account's discovery result.
type AccountNodes struct {
	Account string                  `json:"account" yaml:"account"`
	Addr    string                  `json:"addr,omitempty" yaml:"addr,omitempty"`
	Nodes   []domain.NodeDescriptor `json:"nodes" yaml:"nodes"`
}

// NodeList is the output of the nodes command.
type NodeList struct {
	Accounts []AccountNodes `json:"accounts" yaml:"accounts"`
}

// Table implements output.Tabular.
func (l NodeList) Table(wide bool) *output.Table {
	t := &output.Table{}
	if wide {
		t.SetHeaders("ACCOUNT", "NODE", "HARDWARE", "IP", "CONNECTED", "TODAY", "TOTAL")
	} else {
		t.SetHeaders("ACCOUNT", "NODE", "CONNECTED", "TODAY", "TOTAL")
	}

	for _, acct := range l.Accounts {
		for _, n := range acct.Nodes {
			today := strconv.FormatFloat(n.TodayReward, 'f', 2, 64)
			total := strconv.FormatFloat(n.TotalReward, 'f', 2, 64)
			connected := strconv.FormatBool(n.IsConnected)
			if wide {
				ip := n.IPAddress
				if ip == "" {
					ip = "-"
				}
				t.AddRow(acct.Account, n.PubKey.String(), n.HardwareID, ip, connected, today, total)
			} else {
				t.AddRow(acct.Account, n.PubKey.String(), connected, today, total)
			}
		}
	}
	return t
}

func nodesAction(c *cli.Context) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	cfg, err := loadVerifiedConfig(c)
	if err != nil {
		return err
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}

	gwCfg := cfg.GatewayConfig()
	result := NodeList{Accounts: make([]AccountNodes, len(cfg.Accounts))}

	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(cfg.Fleet.DiscoveryConcurrency)
	for i, acct := range cfg.Accounts {
		g.Go(func() error {
			label := acct.Label()
			client, addr, err := gateway.Connect(ctx, gwCfg, acct, gateway.WithLogger(log.With("account", label)))
			if err != nil {
				return err
			}
			nodes, err := client.ListNodes(ctx)
			if err != nil {
				return fmt.Errorf("account %s: list nodes: %w", label, err)
			}
			result.Accounts[i] = AccountNodes{Account: label, Addr: addr, Nodes: nodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return output.NewFormatter(format, c.Bool("wide")).Format(c.App.Writer, result)
}
