package sensor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	sensorPrefix    = "Sensor at "
	beaconSeparator = ": closest beacon is at "
	pairSeparator   = ", "
	xMarker         = "x="
	yMarker         = "y="
)

// Parse decodes one sensor per line. Lines holding only whitespace are
// skipped and a trailing "\r" is dropped; otherwise spacing must match the
// grammar exactly. The first malformed line aborts parsing and no partial
// Set is returned.
func Parse(lines []string) (*Set, error) {
	sensors := make([]Sensor, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		s, err := parseLine(i+1, line)
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, s)
	}
	return &Set{sensors: sensors}, nil
}

// ParseReader reads r to the end and parses it with Parse.
func ParseReader(r io.Reader) (*Set, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sensor input: %w", err)
	}
	return Parse(lines)
}

// parseLine decodes
// "Sensor at x=<int>, y=<int>: closest beacon is at x=<int>, y=<int>".
func parseLine(lineNo int, line string) (Sensor, error) {
	rest, ok := strings.CutPrefix(line, sensorPrefix)
	if !ok {
		return Sensor{}, &ParseError{Line: lineNo, Text: line, Reason: "missing \"Sensor at\" prefix"}
	}
	sensorPart, beaconPart, ok := strings.Cut(rest, beaconSeparator)
	if !ok {
		return Sensor{}, &ParseError{Line: lineNo, Text: line, Reason: "missing \"closest beacon is at\" marker"}
	}

	loc, err := parsePosition(lineNo, line, sensorPart)
	if err != nil {
		return Sensor{}, err
	}
	beacon, err := parsePosition(lineNo, line, beaconPart)
	if err != nil {
		return Sensor{}, err
	}
	return NewSensor(loc, beacon), nil
}

func parsePosition(lineNo int, line, s string) (Position, error) {
	xs, ys, ok := strings.Cut(s, pairSeparator)
	if !ok {
		return Position{}, &ParseError{Line: lineNo, Text: line, Reason: "missing \", \" between coordinates"}
	}
	x, err := parseCoordinate(lineNo, line, xs, xMarker)
	if err != nil {
		return Position{}, err
	}
	y, err := parseCoordinate(lineNo, line, ys, yMarker)
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

func parseCoordinate(lineNo int, line, token, marker string) (int, error) {
	digits, ok := strings.CutPrefix(token, marker)
	if !ok {
		return 0, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("missing %q marker", marker)}
	}
	if strings.HasPrefix(digits, "+") {
		return 0, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("invalid coordinate %q", digits)}
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("line %d: %s%s: %w", lineNo, marker, digits, ErrCoordinateRange)
		}
		return 0, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("invalid coordinate %q", digits)}
	}
	if v > MaxCoordinate || v < -MaxCoordinate {
		return 0, fmt.Errorf("line %d: %s%s exceeds +/-%d: %w", lineNo, marker, digits, MaxCoordinate, ErrCoordinateRange)
	}
	return v, nil
}
