package cmd

import (
	"fmt"
	"path/filepath"

	"toolprobe/internal/scenario"

	"github.com/spf13/cobra"
)

func newRunCmd(global *rootOptions) *cobra.Command {
	conn := &connectionFlags{}
	var (
		suitePath string
		vars      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a YAML scenario suite",
		Long: `Loads scenarios from a YAML file or a directory of YAML files and runs them
against the single CCXT server (default) or every configured server (--full).

String arguments are templates with the sprig function set, e.g.
  symbol: '{{ env "SYMBOL" | default "BTC/USDT:USDT" }}'
Values passed with --var are available as {{ .name }}.`,
		Example: `  toolprobe run --suite scenarios/public.yaml
  toolprobe run --suite scenarios/ --full --var exchange=binance`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conn.resolve(cmd)
			if err != nil {
				return err
			}

			templateVars := make(map[string]any, len(vars))
			for k, v := range vars {
				templateVars[k] = v
			}

			suite, err := scenario.LoadSuite(suitePath, templateVars)
			if err != nil {
				return fmt.Errorf("failed to load suite: %w", err)
			}
			if len(suite) == 0 {
				return fmt.Errorf("suite %s contains no scenarios", suitePath)
			}

			return probe{
				title:  "Suite " + filepath.Base(suitePath),
				cfg:    cfg,
				suite:  suite,
				conn:   conn,
				global: global,
			}.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&suitePath, "suite", "s", "", "Scenario file or directory (required)")
	cmd.Flags().StringToStringVar(&vars, "var", nil, "Template variable for the suite (key=value, repeatable)")
	cmd.Flags().BoolVar(&conn.full, "full", false, "Use every configured server instead of the CCXT server only")
	_ = cmd.MarkFlagRequired("suite")
	conn.registerMinimal(cmd)
	conn.registerFull(cmd)
	conn.registerCommon(cmd, 0)
	return cmd
}
