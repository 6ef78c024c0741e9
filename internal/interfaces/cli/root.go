// Package cli implements the riskradar command-line tool: API queries through
// the Go SDK plus the operator commands that talk to the stores directly.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/config"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const defaultServerAddr = "http://localhost:5000"

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	API          RadarAPI
	OutputFormat string
	Timeout      time.Duration
	deps         Dependencies
}

// Dependencies lets callers replace the collaborators the commands use.  Nil
// members get the production implementations.
type Dependencies struct {
	NewAPI          func(serverAddr string, timeout time.Duration) (RadarAPI, error)
	NewMigrator     func(cfg *config.Config) Migrator
	NewRosterWriter func(ctx context.Context, cfg *config.Config, logger logging.Logger) (RosterWriter, error)
	NewCacheFlusher func(ctx context.Context, cfg *config.Config, logger logging.Logger) (CacheFlusher, error)
}

func (d *Dependencies) applyDefaults() {
	if d.NewAPI == nil {
		d.NewAPI = newClientAPI
	}
	if d.NewMigrator == nil {
		d.NewMigrator = newPostgresMigrator
	}
	if d.NewRosterWriter == nil {
		d.NewRosterWriter = openRosterWriter
	}
	if d.NewCacheFlusher == nil {
		d.NewCacheFlusher = openCacheFlusher
	}
}

// NewRootCommand creates the root command with its global flags and every
// subcommand.
func NewRootCommand(deps Dependencies) *cobra.Command {
	deps.applyDefaults()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "riskradar",
		Short:   "Supply-chain risk radar CLI",
		Long:    "riskradar queries the risk radar API (risks, suppliers, simulations, benchmarks)\nand runs operator tasks: schema migrations, roster uploads and cache flushes.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: RISKRADAR_* environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputTable, "output format (table, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 5*time.Minute, "per-command timeout; enrichment calls wait on the model")
	pf.StringVar(&opts.ServerAddr, "server", "", "API server address (default: "+defaultServerAddr+")")

	cmd.AddCommand(
		NewRisksCmd(),
		NewSuppliersCmd(),
		NewBenchmarkCmd(),
		NewMetricsCmd(),
		NewMigrateCmd(),
		NewCacheCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions, deps Dependencies) error {
	switch opts.OutputFormat {
	case OutputTable, OutputJSON:
	default:
		return errors.InvalidParam(fmt.Sprintf("invalid output format %q (must be table or json)", opts.OutputFormat))
	}

	cfg, err := config.LoadOrEnv(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            strings.ToLower(opts.LogLevel),
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	addr := opts.ServerAddr
	if addr == "" {
		addr = defaultServerAddr
	}
	api, err := deps.NewAPI(addr, opts.Timeout)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		API:          api,
		OutputFormat: opts.OutputFormat,
		Timeout:      opts.Timeout,
		deps:         deps,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext returns the CLIContext and a context bounded by --timeout.
func commandContext(cmd *cobra.Command) (*CLIContext, context.Context, context.CancelFunc, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	return cliCtx, ctx, cancel, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand(Dependencies{})
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult writes data as JSON or, for table output, as an aligned table
// when data provides one.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := OutputTable
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}
	if format == OutputTable {
		if tp, ok := data.(tableProvider); ok {
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
			return nil
		}
	}
	return printJSON(cmd, data)
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %s\n", msg)
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells func(i int) string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(padRight(cells(i), colWidths[i]))
		}
		sb.WriteString("\n")
	}

	writeRow(func(i int) string { return headers[i] })
	writeRow(func(i int) string { return strings.Repeat("-", colWidths[i]) })
	for _, row := range rows {
		row := row
		writeRow(func(i int) string {
			if i < len(row) {
				return row[i]
			}
			return ""
		})
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

//Personal.AI order the ending
