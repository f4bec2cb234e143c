package sensor

import (
	"errors"
	"fmt"
)

// ErrCoordinateRange is returned when a coordinate is well formed but lies
// outside +/-MaxCoordinate. It is not a ParseError.
var ErrCoordinateRange = errors.New("coordinate out of range")

// ParseError reports a sensor line that does not follow the report grammar.
type ParseError struct {
	Line   int // 1-based
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}
