package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toolprobe/internal/config"
	"toolprobe/internal/discovery"
	"toolprobe/internal/report"
	"toolprobe/internal/scenario"
	"toolprobe/pkg/logging"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates every scenario passed.
	ExitCodeSuccess = 0
	// ExitCodeFailure indicates a failed scenario, a missing tool or a general error.
	ExitCodeFailure = 1
	// ExitCodeConfig indicates an invalid connection configuration.
	ExitCodeConfig = 2
	// ExitCodeDiscovery indicates a server could not be reached or listed.
	ExitCodeDiscovery = 3
	// ExitCodeInterrupted indicates the run was interrupted by a signal.
	ExitCodeInterrupted = 130
)

// ErrInterrupted is returned when a run is stopped by SIGINT or SIGTERM.
var ErrInterrupted = errors.New("interrupted")

// ScenarioFailureError reports that a run completed with failed scenarios.
// The report has already been printed when this is returned.
type ScenarioFailureError struct {
	Failed int
	Total  int
}

func (e *ScenarioFailureError) Error() string {
	return fmt.Sprintf("%d of %d scenarios failed", e.Failed, e.Total)
}

// rootOptions carries the persistent flags shared by all subcommands.
type rootOptions struct {
	verbose         bool
	output          string
	reportPath      string
	continueOnError bool
	noColor         bool
	callTimeout     time.Duration
	envFile         string
}

var appVersion = "dev"

// rootCmd represents the base command for the toolprobe application.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "toolprobe",
		Short: "Smoke-test MCP tool servers over streamable HTTP",
		Long: `toolprobe connects to one or more MCP tool servers, discovers the tools
they advertise, invokes a suite of scenarios against them and reports
per-tool success, latency and a preview of the returned data.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       appVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.InitForCLI(logging.LevelForVerbosity(opts.verbose), cmd.ErrOrStderr())
			if opts.noColor || !isTerminal(cmd.OutOrStdout()) {
				text.DisableColors()
			}
			if _, err := report.ParseFormat(opts.output); err != nil {
				return err
			}
			if err := config.LoadDotEnv(opts.envFile); err != nil {
				return &config.ConfigurationError{Field: "env-file", Value: opts.envFile, Message: err.Error()}
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVarP(&opts.output, "output", "o", string(report.FormatText), "Report format (text, table, json)")
	flags.StringVar(&opts.reportPath, "report", "", "Also write the report as JSON to this file")
	flags.BoolVar(&opts.continueOnError, "continue-on-error", true, "Record missing tools as failures and keep going")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.DurationVar(&opts.callTimeout, "call-timeout", 0, "Per-call timeout (0 disables it)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "File with CCXT_HOST/CCXT_PORT defaults")

	cmd.AddCommand(newDiagnoseCmd(opts))
	cmd.AddCommand(newPublicCmd(opts))
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newToolsCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return appVersion
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "toolprobe version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(rootCmd, err)
		os.Exit(getExitCode(err))
	}
}

// reportError prints errors that the commands have not already surfaced.
func reportError(cmd *cobra.Command, err error) {
	var failed *ScenarioFailureError
	if errors.Is(err, ErrInterrupted) || errors.As(err, &failed) {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if errors.Is(err, ErrInterrupted) || errors.Is(err, context.Canceled) {
		return ExitCodeInterrupted
	}

	var configErr *config.ConfigurationError
	if errors.As(err, &configErr) {
		return ExitCodeConfig
	}

	var discoveryErr *discovery.DiscoveryError
	if errors.As(err, &discoveryErr) {
		return ExitCodeDiscovery
	}

	var notFound *scenario.ToolNotFoundError
	if errors.As(err, &notFound) {
		return ExitCodeFailure
	}

	// Default to general error
	return ExitCodeFailure
}
