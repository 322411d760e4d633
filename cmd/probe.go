package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"toolprobe/internal/config"
	"toolprobe/internal/discovery"
	"toolprobe/internal/report"
	"toolprobe/internal/scenario"
	"toolprobe/internal/telemetry"
	"toolprobe/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// connectionFlags selects between the single-server and the full configuration.
type connectionFlags struct {
	full          bool
	serversConfig string
	host          string
	port          int
	warmUp        time.Duration
	initTimeout   time.Duration
}

func (f *connectionFlags) registerMinimal(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.host, "host", config.DefaultHost, "Tool server host; "+config.DefaultHost+", or "+config.EnvHost+" when set")
	cmd.Flags().IntVar(&f.port, "port", config.DefaultPort, "Tool server port; "+strconv.Itoa(config.DefaultPort)+", or "+config.EnvPort+" when set")
}

func (f *connectionFlags) registerFull(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.serversConfig, "servers-config", "", "Path to servers.yaml (default ~/.config/toolprobe/servers.yaml)")
}

func (f *connectionFlags) registerCommon(cmd *cobra.Command, warmUp time.Duration) {
	cmd.Flags().DurationVar(&f.warmUp, "warmup", warmUp, "Wait this long before connecting to the servers")
	cmd.Flags().DurationVar(&f.initTimeout, "init-timeout", discovery.DefaultInitTimeout, "Timeout for each server's initialize handshake")
}

// minimal builds the single-server configuration. Flags that were not set
// explicitly fall back to CCXT_HOST / CCXT_PORT.
func (f *connectionFlags) minimal(cmd *cobra.Command) (config.Configuration, error) {
	envHost, envPort, err := config.EnvDefaults()
	if err != nil {
		return config.Configuration{}, err
	}

	host, port := f.host, f.port
	if !cmd.Flags().Changed("host") {
		host = envHost
	}
	if !cmd.Flags().Changed("port") {
		port = envPort
	}
	return config.MinimalConfiguration(host, port)
}

// fullConfig builds the configuration of every known server.
func (f *connectionFlags) fullConfig() (config.Configuration, error) {
	path := f.serversConfig
	if path == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			logging.Warn("CLI", "%v, using built-in server list", err)
		}
		path = defaultPath
	}

	shared, err := config.LoadProcessConfig(path)
	if err != nil {
		return config.Configuration{}, &config.ConfigurationError{Field: "servers-config", Value: path, Message: err.Error()}
	}
	return config.FullConfiguration(shared)
}

func (f *connectionFlags) resolve(cmd *cobra.Command) (config.Configuration, error) {
	if f.full {
		return f.fullConfig()
	}
	return f.minimal(cmd)
}

// probe is one end-to-end run: discovery, scenarios and the report.
type probe struct {
	title  string
	cfg    config.Configuration
	suite  []scenario.Definition
	conn   *connectionFlags
	global *rootOptions
}

func (p probe) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	format, err := report.ParseFormat(p.global.output)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	started := time.Now()
	logging.Info("CLI", "Starting run %s: %s against %s", runID, p.title, describeTarget(p.cfg))

	session, err := discover(ctx, errOut, p.cfg, p.conn)
	if err != nil {
		if ctx.Err() != nil {
			return interrupted(errOut, ctx.Err())
		}
		printConnectFailure(errOut, p.cfg, err)
		return err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logging.Warn("CLI", "Failed to close sessions: %v", closeErr)
		}
	}()

	runner := scenario.NewRunner(session.Catalog(),
		scenario.WithObserver(newObserver()),
		scenario.WithContinueOnError(p.global.continueOnError),
		scenario.WithCallTimeout(p.global.callTimeout),
	)

	results, runErr := runner.Run(ctx, p.suite)
	if ctx.Err() != nil {
		return interrupted(errOut, ctx.Err())
	}

	rep := report.Report{
		Title:     p.title,
		RunID:     runID,
		Target:    describeTarget(p.cfg),
		StartedAt: started,
		Duration:  time.Since(started),
		Results:   results,
	}
	formatter := report.NewFormatter(report.Options{Format: format, Color: colorEnabled(p.global, out)})
	if err := formatter.Render(out, rep); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if p.global.reportPath != "" {
		if err := writeReportFile(p.global.reportPath, rep); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if !report.AllPassed(results) {
		_, failed := report.Summary(results)
		return &ScenarioFailureError{Failed: failed, Total: len(results)}
	}
	return nil
}

// discover connects to every configured server, showing a spinner on a terminal.
func discover(ctx context.Context, errOut io.Writer, cfg config.Configuration, conn *connectionFlags) (*discovery.Session, error) {
	stop := startSpinner(errOut, fmt.Sprintf(" Connecting to %d tool server(s)...", cfg.Len()))
	session, err := discovery.Discover(ctx, cfg, discovery.Options{
		WarmUp:        conn.warmUp,
		InitTimeout:   conn.initTimeout,
		ClientName:    discovery.DefaultClientName,
		ClientVersion: GetVersion(),
	})
	stop(err)
	return session, err
}

func newObserver() *telemetry.Observer {
	observer, err := telemetry.NewGlobalObserver()
	if err != nil {
		logging.Warn("CLI", "Telemetry disabled: %v", err)
		return nil
	}
	return observer
}

func interrupted(errOut io.Writer, cause error) error {
	fmt.Fprintln(errOut, "Test interrupted by user")
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

// printConnectFailure prints the one-line diagnostic plus hints for a failed discovery.
func printConnectFailure(errOut io.Writer, cfg config.Configuration, err error) {
	fmt.Fprintf(errOut, "%s %v\n", text.FgRed.Sprint("Could not connect to tool servers:"), err)
	for _, hint := range connectionHints(cfg, err) {
		fmt.Fprintf(errOut, "HINT: %s\n", hint)
	}
}

func connectionHints(cfg config.Configuration, err error) []string {
	target := describeTarget(cfg)
	var discoveryErr *discovery.DiscoveryError
	if errors.As(err, &discoveryErr) && discoveryErr.URL != "" {
		target = discoveryErr.URL
	}

	if errors.Is(err, discovery.ErrDuplicateTool) {
		return []string{"two servers advertise the same tool name; remove one of them from servers.yaml"}
	}

	var hints []string
	switch discovery.ClassifyConnectionError(err) {
	case discovery.ConnectionErrorNetwork:
		hints = append(hints, fmt.Sprintf("make sure the MCP tool server is running and listening on %s", target))
	case discovery.ConnectionErrorDNS:
		hints = append(hints, fmt.Sprintf("check the host name in %s", target))
	case discovery.ConnectionErrorTimeout:
		hints = append(hints, "the server did not answer in time; increase --warmup or --init-timeout if it was just started")
	case discovery.ConnectionErrorTLS:
		hints = append(hints, fmt.Sprintf("the TLS certificate of %s could not be verified", target))
	case discovery.ConnectionErrorAuth:
		hints = append(hints, "the server rejected the request; check the headers configured in servers.yaml")
	default:
		hints = append(hints, fmt.Sprintf("check that %s is an MCP streamable HTTP endpoint", target))
	}

	if _, ok := cfg.Get(config.ServerCCXT); ok && cfg.Len() == 1 {
		hints = append(hints, fmt.Sprintf("override the address with --host/--port or %s/%s", config.EnvHost, config.EnvPort))
	}
	return hints
}

func describeTarget(cfg config.Configuration) string {
	ids := cfg.Servers()
	if len(ids) == 1 {
		conn, _ := cfg.Get(ids[0])
		return conn.URL
	}
	return strings.Join(ids, ", ")
}

func writeReportFile(path string, rep report.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := report.NewJSONFormatter().Render(f, rep); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	logging.Info("CLI", "Report written to %s", path)
	return nil
}

// startSpinner shows progress on a terminal; the returned func stops it.
func startSpinner(w io.Writer, suffix string) func(error) {
	if !isTerminal(w) {
		return func(error) {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = suffix
	s.Start()
	return func(err error) {
		if err != nil {
			s.FinalMSG = text.FgRed.Sprint("Discovery failed") + "\n"
		}
		s.Stop()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func colorEnabled(opts *rootOptions, w io.Writer) bool {
	return !opts.noColor && isTerminal(w)
}
