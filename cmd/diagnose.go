package cmd

import (
	"time"

	"toolprobe/internal/config"
	"toolprobe/internal/scenario"

	"github.com/spf13/cobra"
)

// defaultDiagnoseWarmUp gives freshly started servers time to bind their ports.
const defaultDiagnoseWarmUp = 5 * time.Second

func newDiagnoseCmd(global *rootOptions) *cobra.Command {
	conn := &connectionFlags{full: true}

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Check that every configured tool server is reachable",
		Long: `Connects to every server in the full configuration, waits for the warm-up
period, discovers the advertised tools and invokes the diagnostic suite
(list-exchanges) to confirm the CCXT server answers.

The server list defaults to the built-in local ports and is overlaid by
~/.config/toolprobe/servers.yaml or the file given with --servers-config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conn.resolve(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Require(config.ServerCCXT); err != nil {
				return err
			}

			return probe{
				title:  "Diagnostic",
				cfg:    cfg,
				suite:  scenario.DiagnosticSuite(),
				conn:   conn,
				global: global,
			}.run(cmd)
		},
	}

	conn.registerFull(cmd)
	conn.registerCommon(cmd, defaultDiagnoseWarmUp)
	return cmd
}
