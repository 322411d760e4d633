package cmd

import (
	"toolprobe/internal/scenario"

	"github.com/spf13/cobra"
)

func newPublicCmd(global *rootOptions) *cobra.Command {
	conn := &connectionFlags{}

	cmd := &cobra.Command{
		Use:   "public",
		Short: "Exercise the public market-data tools of the CCXT server",
		Long: `Connects to a single CCXT tool server and invokes get-market-types,
get-ohlcv and get-ticker with fixed arguments (bybit, BTC/USDT:USDT swap).

The address defaults to CCXT_HOST / CCXT_PORT (from the environment or .env),
falling back to localhost:8004.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conn.resolve(cmd)
			if err != nil {
				return err
			}

			return probe{
				title:  "Public tools",
				cfg:    cfg,
				suite:  scenario.PublicToolsSuite(),
				conn:   conn,
				global: global,
			}.run(cmd)
		},
	}

	conn.registerMinimal(cmd)
	conn.registerCommon(cmd, 0)
	return cmd
}
