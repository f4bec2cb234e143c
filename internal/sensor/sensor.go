package sensor

import "fmt"

// MaxCoordinate bounds the absolute value of every parsed coordinate. At
// this bound a radius, and a sensor's x plus or minus its radius, still fit
// in a 32-bit int.
const MaxCoordinate = 1 << 28

// Position is a cell on the integer plane.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// ManhattanDistance returns |dx| + |dy| between p and o.
func (p Position) ManhattanDistance(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// Sensor is a point sensor together with the closest beacon it reported.
type Sensor struct {
	Location Position `json:"location"`
	Beacon   Position `json:"beacon"`
	Radius   int      `json:"radius"`
}

// NewSensor builds a Sensor and fixes its Radius. Both positions must lie
// within +/-MaxCoordinate on each axis or the radius can overflow; Parse
// enforces this for report input.
func NewSensor(location, beacon Position) Sensor {
	return Sensor{
		Location: location,
		Beacon:   beacon,
		Radius:   location.ManhattanDistance(beacon),
	}
}

// HalfWidth returns how far the sensor's diamond extends either side of its
// x coordinate on the given row. A negative result means the row is out of
// reach.
func (s Sensor) HalfWidth(row int) int {
	return s.Radius - abs(s.Location.Y-row)
}

// Covers reports whether p lies inside the sensor's diamond.
func (s Sensor) Covers(p Position) bool {
	return s.Location.ManhattanDistance(p) <= s.Radius
}

// Set is an immutable, ordered collection of sensors.
type Set struct {
	sensors []Sensor
}

// NewSet copies sensors into a new Set.
func NewSet(sensors ...Sensor) *Set {
	s := make([]Sensor, len(sensors))
	copy(s, sensors)
	return &Set{sensors: s}
}

// Len returns the number of sensors. A nil Set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.sensors)
}

// At returns the i'th sensor in input order.
func (s *Set) At(i int) Sensor {
	return s.sensors[i]
}

// Sensors returns a copy of the sensors in input order.
func (s *Set) Sensors() []Sensor {
	if s == nil {
		return nil
	}
	out := make([]Sensor, len(s.sensors))
	copy(out, s.sensors)
	return out
}

// Extent returns the smallest box containing every sensor diamond.
// ok is false for an empty set.
func (s *Set) Extent() (min, max Position, ok bool) {
	if s.Len() == 0 {
		return Position{}, Position{}, false
	}
	first := s.sensors[0]
	min = Position{first.Location.X - first.Radius, first.Location.Y - first.Radius}
	max = Position{first.Location.X + first.Radius, first.Location.Y + first.Radius}
	for _, sn := range s.sensors[1:] {
		min.X = minInt(min.X, sn.Location.X-sn.Radius)
		min.Y = minInt(min.Y, sn.Location.Y-sn.Radius)
		max.X = maxInt(max.X, sn.Location.X+sn.Radius)
		max.Y = maxInt(max.Y, sn.Location.Y+sn.Radius)
	}
	return min, max, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
