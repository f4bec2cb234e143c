package coverage

import (
	"testing"

	"github.com/banshee-data/coverage.report/internal/sensor"
	"github.com/banshee-data/coverage.report/internal/testutil"
)

func TestCountCovered_Example(t *testing.T) {
	sensors := testutil.ExampleSensors(t)

	testCases := []struct {
		name string
		row  int
		want int
	}{
		{"row_10", 10, 26},
		{"row_9", 9, 25},
		{"row_11_sensor_on_row", 11, 27},
		{"row_16_shared_beacon", 16, 28},
		{"uncovered_row", 1000, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CountCovered(sensors, tc.row); got != tc.want {
				t.Errorf("CountCovered(row=%d) = %d, want %d", tc.row, got, tc.want)
			}
		})
	}
}

func TestCountCovered_DeduplicatesOccupiedCells(t *testing.T) {
	// Two sensors report the same beacon at (3, 0); one sensor sits on the row.
	sensors := sensor.NewSet(
		sensor.NewSensor(sensor.Position{X: 0, Y: 0}, sensor.Position{X: 3, Y: 0}),
		sensor.NewSensor(sensor.Position{X: 3, Y: 2}, sensor.Position{X: 3, Y: 0}),
	)
	// Row 0 covers [-3, 3] and [3, 3]; occupied x = {0, 3}.
	if got := CountCovered(sensors, 0); got != 5 {
		t.Errorf("CountCovered() = %d, want 5", got)
	}
}

func TestCountCovered_Empty(t *testing.T) {
	if got := CountCovered(sensor.NewSet(), 10); got != 0 {
		t.Errorf("CountCovered() on empty set = %d, want 0", got)
	}
}
