package cmd

import (
	"encoding/json"
	"fmt"

	"toolprobe/internal/report"
	"toolprobe/pkg/logging"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type toolEntry struct {
	Name   string `json:"name"`
	Server string `json:"server"`
}

func newToolsCmd(global *rootOptions) *cobra.Command {
	conn := &connectionFlags{}

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools the servers advertise",
		Long: `Runs discovery only and prints the merged tool catalog. No tool is invoked.
Use --full to list the tools of every configured server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conn.resolve(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := discover(ctx, cmd.ErrOrStderr(), cfg, conn)
			if err != nil {
				if ctx.Err() != nil {
					return interrupted(cmd.ErrOrStderr(), ctx.Err())
				}
				printConnectFailure(cmd.ErrOrStderr(), cfg, err)
				return err
			}
			defer func() {
				if closeErr := session.Close(); closeErr != nil {
					logging.Warn("CLI", "Failed to close sessions: %v", closeErr)
				}
			}()

			catalog := session.Catalog()
			entries := make([]toolEntry, 0, catalog.Len())
			for _, name := range catalog.Names() {
				handle, _ := catalog.Lookup(name)
				entries = append(entries, toolEntry{Name: name, Server: handle.Server()})
			}

			out := cmd.OutOrStdout()
			format, _ := report.ParseFormat(global.output)
			switch format {
			case report.FormatJSON:
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode tools: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case report.FormatTable:
				t := table.NewWriter()
				t.SetOutputMirror(out)
				t.SetStyle(table.StyleRounded)
				t.AppendHeader(table.Row{"TOOL", "SERVER"})
				for _, e := range entries {
					t.AppendRow(table.Row{e.Name, e.Server})
				}
				t.Render()
			default:
				for _, e := range entries {
					fmt.Fprintf(out, "%s\t%s\n", e.Name, e.Server)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&conn.full, "full", false, "Use every configured server instead of the CCXT server only")
	conn.registerMinimal(cmd)
	conn.registerFull(cmd)
	conn.registerCommon(cmd, 0)
	return cmd
}
