package coverage

import "github.com/banshee-data/coverage.report/internal/sensor"

// Row returns the merged coverage of row. It returns nil when no sensor
// reaches the row.
func Row(sensors *sensor.Set, row int) []Range {
	out := AppendRow(nil, sensors, row)
	if len(out) == 0 {
		return nil
	}
	return out
}

// AppendRow computes the merged coverage of row into dst[:0] and returns the
// result. Scanners pass the previous row's slice back in so a scan reuses a
// single buffer.
func AppendRow(dst []Range, sensors *sensor.Set, row int) []Range {
	dst = dst[:0]
	for i := 0; i < sensors.Len(); i++ {
		s := sensors.At(i)
		halfWidth := s.HalfWidth(row)
		if halfWidth < 0 {
			continue
		}
		dst = append(dst, Range{
			Lo: s.Location.X - halfWidth,
			Hi: s.Location.X + halfWidth,
		})
	}
	return mergeInPlace(dst)
}
