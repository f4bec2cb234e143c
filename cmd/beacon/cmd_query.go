package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/coverage.report/internal/coverage"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// rowFlag resolves the --row flag against the configured count row.
func rowFlag(cmd *cobra.Command, g *globalOptions, row int) int {
	if cmd.Flags().Changed("row") {
		return row
	}
	return g.cfg.GetCountRow()
}

func newCountCmd(g *globalOptions) *cobra.Command {
	var row int
	cmd := &cobra.Command{
		Use:   "count [report]",
		Short: "Count the cells on a row where no beacon can be",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sensors, err := readSensors(cmd, args)
			if err != nil {
				return err
			}
			y := rowFlag(cmd, g, row)
			n := coverage.CountCovered(sensors, y)
			g.logger.Info("counted covered cells", zap.Int("row", y), zap.Int("count", n))
			if g.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"row": y, "count": n})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
	cmd.Flags().IntVarP(&row, "row", "r", 0, "Row to count (default from config, 2000000)")
	return cmd
}

func newRangesCmd(g *globalOptions) *cobra.Command {
	var row int
	cmd := &cobra.Command{
		Use:   "ranges [report]",
		Short: "Print the merged covered ranges of a row",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sensors, err := readSensors(cmd, args)
			if err != nil {
				return err
			}
			y := rowFlag(cmd, g, row)
			ranges := coverage.Row(sensors, y)
			if g.jsonOut {
				if ranges == nil {
					ranges = []coverage.Range{}
				}
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"row": y, "ranges": ranges})
			}
			for _, r := range ranges {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), r); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&row, "row", "r", 0, "Row to project (default from config, 2000000)")
	return cmd
}

// searchFlags are the bounds and scanner overrides shared by gap and plot.
type searchFlags struct {
	min, max  int
	workers   int
	shardRows int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.min, "min", 0, "Lower bound of the search square (default from config, 0)")
	cmd.Flags().IntVar(&f.max, "max", 0, "Upper bound of the search square (default from config, 4000000)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Scanner workers (default from config, one per CPU)")
	cmd.Flags().IntVar(&f.shardRows, "shard-rows", 0, "Rows per scanner shard (default from config)")
}

func (f *searchFlags) bounds(cmd *cobra.Command, g *globalOptions) coverage.Bounds {
	b := coverage.Bounds{Min: g.cfg.GetSearchMin(), Max: g.cfg.GetSearchMax()}
	if cmd.Flags().Changed("min") {
		b.Min = f.min
	}
	if cmd.Flags().Changed("max") {
		b.Max = f.max
	}
	return b
}

func (f *searchFlags) options(cmd *cobra.Command, g *globalOptions) coverage.ScanOptions {
	opts := coverage.ScanOptions{Workers: g.cfg.GetWorkers(), ShardRows: g.cfg.GetShardRows()}
	if cmd.Flags().Changed("workers") {
		opts.Workers = f.workers
	}
	if cmd.Flags().Changed("shard-rows") {
		opts.ShardRows = f.shardRows
	}
	return opts
}

// scanContext applies the configured scan timeout to the command context.
func scanContext(cmd *cobra.Command, g *globalOptions) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := g.cfg.GetScanTimeout(); timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func newGapCmd(g *globalOptions) *cobra.Command {
	var sf searchFlags
	cmd := &cobra.Command{
		Use:   "gap [report]",
		Short: "Find the one uncovered cell in the search square and its tuning frequency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sensors, err := readSensors(cmd, args)
			if err != nil {
				return err
			}
			bounds := sf.bounds(cmd, g)
			ctx, cancel := scanContext(cmd, g)
			defer cancel()

			res, err := coverage.NewScanner(sensors, sf.options(cmd, g)).Scan(ctx, bounds, bounds)
			if err != nil {
				return err
			}
			g.logger.Info("found gap",
				zap.String("run_id", res.RunID),
				zap.Int("x", res.Position.X),
				zap.Int("y", res.Position.Y),
				zap.Int64("frequency", res.Frequency),
				zap.Duration("elapsed", res.Elapsed),
			)
			if g.jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Frequency)
			return err
		},
	}
	sf.register(cmd)
	return cmd
}
