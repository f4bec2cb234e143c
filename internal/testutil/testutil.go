// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/banshee-data/coverage.report/internal/sensor"
)

// ExampleInput is the fourteen-sensor report used throughout the tests.
// Row 10 has 26 covered empty cells and the only gap in 0..=20 is (14, 11).
const ExampleInput = `Sensor at x=2, y=18: closest beacon is at x=-2, y=15
Sensor at x=9, y=16: closest beacon is at x=10, y=16
Sensor at x=13, y=2: closest beacon is at x=15, y=3
Sensor at x=12, y=14: closest beacon is at x=10, y=16
Sensor at x=10, y=20: closest beacon is at x=10, y=16
Sensor at x=14, y=17: closest beacon is at x=10, y=16
Sensor at x=8, y=7: closest beacon is at x=2, y=10
Sensor at x=2, y=0: closest beacon is at x=2, y=10
Sensor at x=0, y=11: closest beacon is at x=2, y=10
Sensor at x=20, y=14: closest beacon is at x=25, y=17
Sensor at x=17, y=20: closest beacon is at x=21, y=22
Sensor at x=16, y=7: closest beacon is at x=15, y=3
Sensor at x=14, y=3: closest beacon is at x=15, y=3
Sensor at x=20, y=1: closest beacon is at x=15, y=3
`

// ExampleSensors parses ExampleInput.
func ExampleSensors(t testing.TB) *sensor.Set {
	t.Helper()
	set, err := sensor.ParseReader(strings.NewReader(ExampleInput))
	if err != nil {
		t.Fatalf("failed to parse example input: %v", err)
	}
	return set
}

// RandomSensors returns n sensors whose locations and beacons lie in
// [lo, hi] on both axes.
func RandomSensors(rng *rand.Rand, n, lo, hi int) *sensor.Set {
	span := hi - lo + 1
	coord := func() int { return lo + rng.IntN(span) }
	sensors := make([]sensor.Sensor, n)
	for i := range sensors {
		sensors[i] = sensor.NewSensor(
			sensor.Position{X: coord(), Y: coord()},
			sensor.Position{X: coord(), Y: coord()},
		)
	}
	return sensor.NewSet(sensors...)
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// NewTestRequest creates a test HTTP request with an optional plain-text body.
func NewTestRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "text/plain")
	}
	return req
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
