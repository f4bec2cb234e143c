package coverage

import "github.com/banshee-data/coverage.report/internal/sensor"

// CountCovered returns the number of positions on row that are covered by a
// sensor and hold neither a sensor nor a beacon.
func CountCovered(sensors *sensor.Set, row int) int {
	total := Total(Row(sensors, row))

	occupied := make(map[int]struct{})
	for i := 0; i < sensors.Len(); i++ {
		s := sensors.At(i)
		if s.Location.Y == row {
			occupied[s.Location.X] = struct{}{}
		}
		if s.Beacon.Y == row {
			occupied[s.Beacon.X] = struct{}{}
		}
	}
	return total - len(occupied)
}
