package coverage

import (
	"errors"
	"fmt"

	"github.com/banshee-data/coverage.report/internal/sensor"
)

// TuningMultiplier scales a gap's x coordinate in its tuning frequency.
const TuningMultiplier = 4_000_000

var (
	// ErrNotFound matches any NotFoundError via errors.Is.
	ErrNotFound = errors.New("no uncovered position found")
	// ErrInvalidBounds is returned for a Bounds with Min > Max.
	ErrInvalidBounds = errors.New("invalid bounds")
)

// Bounds is the closed integer interval [Min, Max] used for the row and
// column limits of a gap search.
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v int) bool {
	return b.Min <= v && v <= b.Max
}

// Validate checks that the bounds are not inverted.
func (b Bounds) Validate() error {
	if b.Min > b.Max {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidBounds, b.Min, b.Max)
	}
	return nil
}

func (b Bounds) String() string {
	return fmt.Sprintf("%d..=%d", b.Min, b.Max)
}

// NotFoundError reports that a gap search exhausted its rows.
type NotFoundError struct {
	Rows Bounds
	Cols Bounds
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no uncovered position in rows %s, columns %s", e.Rows, e.Cols)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TuningFrequency encodes a gap position as x*4000000+y.
func TuningFrequency(p sensor.Position) int64 {
	return int64(p.X)*TuningMultiplier + int64(p.Y)
}

// FindGap scans rows in ascending order and returns the first position not
// covered by any sensor.
//
// The search assumes the region holds exactly one uncovered position. It
// returns the lowest-x gap of the lowest qualifying row and does not check
// for others. A row whose first gap falls outside cols is skipped, even if a
// later gap on the same row would be inside.
func FindGap(sensors *sensor.Set, rows, cols Bounds) (sensor.Position, error) {
	if err := rows.Validate(); err != nil {
		return sensor.Position{}, fmt.Errorf("rows: %w", err)
	}
	if err := cols.Validate(); err != nil {
		return sensor.Position{}, fmt.Errorf("columns: %w", err)
	}

	var buf []Range
	for y := rows.Min; ; y++ {
		buf = AppendRow(buf, sensors, y)
		if x, ok := gapInRow(buf, cols); ok {
			return sensor.Position{X: x, Y: y}, nil
		}
		if y == rows.Max {
			break
		}
	}
	return sensor.Position{}, &NotFoundError{Rows: rows, Cols: cols}
}

// gapInRow returns the first uncovered x of a merged row when it lies within
// cols.
func gapInRow(ranges []Range, cols Bounds) (int, bool) {
	if len(ranges) < 2 {
		return 0, false
	}
	x := ranges[0].Hi + 1
	if !cols.Contains(x) {
		return 0, false
	}
	return x, true
}
