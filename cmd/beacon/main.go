// Command beacon answers coverage questions about a sensor report: how many
// cells on a row cannot hold a beacon, and where the one uncovered cell in a
// search square is.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/banshee-data/coverage.report/internal/config"
	"github.com/banshee-data/coverage.report/internal/monitoring"
	"github.com/banshee-data/coverage.report/internal/sensor"
)

// newLogger builds the process logger. Tests swap it for a no-op logger.
var newLogger = func(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
	jsonOut    bool

	cfg    *config.ScanConfig
	logger *zap.Logger
}

// close flushes the logger and detaches it from monitoring. cobra skips
// PersistentPostRun when RunE fails, so execute defers this instead.
func (g *globalOptions) close() {
	if g.logger != nil {
		_ = g.logger.Sync()
		g.logger = nil
	}
	monitoring.UseZap(nil)
}

func newRootCmd(g *globalOptions) *cobra.Command {

	root := &cobra.Command{
		Use:   "beacon",
		Short: "Sensor coverage queries over Manhattan-radius sensor reports",
		Long: `beacon reads a sensor report, one line per sensor:

  Sensor at x=2, y=18: closest beacon is at x=-2, y=15

from a file argument or standard input, and answers coverage queries on it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(g.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			g.logger = logger
			monitoring.UseZap(logger)

			if g.configPath == "" {
				g.cfg = config.EmptyScanConfig()
				return nil
			}
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			g.cfg = cfg
			logger.Debug("loaded config", zap.String("path", g.configPath))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Scan config file (.json, .yaml or .yml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVar(&g.jsonOut, "json", false, "Write results as JSON")

	root.AddCommand(
		newCountCmd(g),
		newRangesCmd(g),
		newGapCmd(g),
		newPlotCmd(g),
		newChartCmd(g),
		newServeCmd(g),
		newVersionCmd(),
	)
	return root
}

// readSensors parses the report named by args[0], or standard input when no
// file is given or the file is "-".
func readSensors(cmd *cobra.Command, args []string) (*sensor.Set, error) {
	var r io.Reader = cmd.InOrStdin()
	name := "stdin"
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to open sensor report: %w", err)
		}
		defer f.Close()
		r, name = f, args[0]
	}
	sensors, err := sensor.ParseReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	monitoring.Debugf("read %d sensors from %s", sensors.Len(), name)
	return sensors, nil
}

// execute runs root once and always releases the logger g holds, whether
// or not the command succeeded.
func execute(ctx context.Context, g *globalOptions, root *cobra.Command) error {
	defer g.close()
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g := &globalOptions{}
	if err := execute(ctx, g, newRootCmd(g)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
