package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/report"
	"github.com/banshee-data/coverage.report/internal/sensor"
)

// createOutput opens path for writing, creating parent directories.
func createOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

func newPlotCmd(g *globalOptions) *cobra.Command {
	var (
		sf      searchFlags
		out     string
		title   string
		markGap bool
	)
	cmd := &cobra.Command{
		Use:   "plot [report]",
		Short: "Draw the sensor coverage diamonds to an image",
		Long:  "Draw the sensor coverage diamonds to an image. The format follows the output extension (png, svg, pdf, jpg).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sensors, err := readSensors(cmd, args)
			if err != nil {
				return err
			}
			opts := report.PlotOptions{
				Title:  title,
				Format: strings.TrimPrefix(filepath.Ext(out), "."),
			}
			if markGap {
				opts.Gap, err = locateGap(cmd, g, &sf, sensors)
				if err != nil {
					return err
				}
			}

			f, err := createOutput(out)
			if err != nil {
				return err
			}
			if err := report.WritePlot(f, sensors, opts); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			g.logger.Info("wrote coverage plot", zap.String("path", out), zap.Int("sensors", sensors.Len()))
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "coverage.png", "Output image path")
	cmd.Flags().StringVar(&title, "title", "", "Plot title")
	cmd.Flags().BoolVar(&markGap, "gap", false, "Search for the uncovered cell and mark it")
	return cmd
}

// locateGap runs the scanner for plot. A missing gap is logged, not fatal.
func locateGap(cmd *cobra.Command, g *globalOptions, sf *searchFlags, sensors *sensor.Set) (*sensor.Position, error) {
	bounds := sf.bounds(cmd, g)
	ctx, cancel := scanContext(cmd, g)
	defer cancel()

	pos, err := coverage.NewScanner(sensors, sf.options(cmd, g)).FindGap(ctx, bounds, bounds)
	if errors.Is(err, coverage.ErrNotFound) {
		g.logger.Warn("no gap to mark", zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func newChartCmd(g *globalOptions) *cobra.Command {
	var (
		from, to int
		out      string
	)
	cmd := &cobra.Command{
		Use:   "chart [report]",
		Short: "Render per-row coverage as an HTML bar chart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sensors, err := readSensors(cmd, args)
			if err != nil {
				return err
			}
			rows := coverage.Bounds{Min: from, Max: to}
			if out == "-" {
				return report.RenderRowChart(cmd.OutOrStdout(), sensors, rows)
			}
			f, err := createOutput(out)
			if err != nil {
				return err
			}
			if err := report.RenderRowChart(f, sensors, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			g.logger.Info("wrote row chart", zap.String("path", out), zap.Stringer("rows", rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "First row to chart")
	cmd.Flags().IntVar(&to, "to", 20, "Last row to chart")
	cmd.Flags().StringVarP(&out, "out", "o", "coverage.html", "Output HTML path, or - for stdout")
	return cmd
}
