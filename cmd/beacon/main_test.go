package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/monitoring"
	"github.com/banshee-data/coverage.report/internal/sensor"
	"github.com/banshee-data/coverage.report/internal/testutil"
)

func TestMain(m *testing.M) {
	newLogger = func(bool) (*zap.Logger, error) { return zap.NewNop(), nil }
	os.Exit(m.Run())
}

// run executes the CLI with the example report on stdin.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	g := &globalOptions{}
	root := newRootCmd(g)
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := execute(context.Background(), g, root)
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.yaml")
	testutil.AssertNoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "row flag", args: []string{"count", "--row", "10"}, want: "26\n"},
		{name: "short flag", args: []string{"count", "-r", "11"}, want: "27\n"},
		{name: "default row misses example", args: []string{"count"}, want: "0\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, testutil.ExampleInput, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestCount_ConfigRow(t *testing.T) {
	cfg := writeConfig(t, "count_row: 10\n")
	out, err := run(t, testutil.ExampleInput, "--config", cfg, "count")
	require.NoError(t, err)
	assert.Equal(t, "26\n", out)
}

func TestCount_FileArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	testutil.AssertNoError(t, os.WriteFile(path, []byte(testutil.ExampleInput), 0o600))

	out, err := run(t, "", "count", "--row", "10", path)
	require.NoError(t, err)
	assert.Equal(t, "26\n", out)
}

func TestCount_JSON(t *testing.T) {
	out, err := run(t, testutil.ExampleInput, "--json", "count", "--row", "10")
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]int{"row": 10, "count": 26}, got)
}

func TestRanges(t *testing.T) {
	out, err := run(t, testutil.ExampleInput, "ranges", "--row", "11")
	require.NoError(t, err)
	assert.Equal(t, "[-3, 13]\n[15, 25]\n", out)
}

func TestGap(t *testing.T) {
	out, err := run(t, testutil.ExampleInput, "gap", "--min", "0", "--max", "20", "--workers", "3", "--shard-rows", "5")
	require.NoError(t, err)
	assert.Equal(t, "56000011\n", out)
}

func TestGap_JSON(t *testing.T) {
	cfg := writeConfig(t, "search_min: 0\nsearch_max: 20\nworkers: 2\nshard_rows: 4\n")
	out, err := run(t, testutil.ExampleInput, "--config", cfg, "--json", "gap")
	require.NoError(t, err)

	var got coverage.ScanResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sensor.Position{X: 14, Y: 11}, got.Position)
	assert.Equal(t, int64(56000011), got.Frequency)
	assert.Equal(t, 2, got.Workers)
}

func TestGap_NotFound(t *testing.T) {
	_, err := run(t, testutil.ExampleInput, "gap", "--min", "0", "--max", "13")
	assert.True(t, errors.Is(err, coverage.ErrNotFound))
}

func TestParseFailure(t *testing.T) {
	_, err := run(t, "Sensor at x=1, y=2: closest beacon is at x=3\n", "count", "--row", "1")
	var perr *sensor.ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, 1, perr.Line)
}

func TestBadConfig(t *testing.T) {
	_, err := run(t, testutil.ExampleInput, "--config", filepath.Join(t.TempDir(), "scan.txt"), "count")
	assert.Error(t, err)
}

func TestPlot(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plots", "coverage.png")
	_, err := run(t, testutil.ExampleInput, "plot", "--gap", "--min", "0", "--max", "20", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestChart_Stdout(t *testing.T) {
	out, err := run(t, testutil.ExampleInput, "chart", "--from", "0", "--to", "20", "--out", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Sensor Row Coverage")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "beacon "), "got %q", out)
}

func TestExecute_ReleasesLoggerOnError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	orig := newLogger
	newLogger = func(bool) (*zap.Logger, error) { return zap.New(core), nil }
	t.Cleanup(func() { newLogger = orig })

	_, err := run(t, testutil.ExampleInput, "gap", "--min", "0", "--max", "13")
	require.Error(t, err)

	// The failed command must not leave monitoring routed to its logger.
	before := logs.Len()
	monitoring.Logf("after the command")
	assert.Equal(t, before, logs.Len())
	assert.Zero(t, logs.FilterMessage("after the command").Len())
}
