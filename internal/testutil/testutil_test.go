package testutil

import (
	"io"
	"math/rand/v2"
	"net/http"
	"testing"
)

func TestExampleSensors(t *testing.T) {
	t.Parallel()

	set := ExampleSensors(t)
	if set.Len() != 14 {
		t.Fatalf("Len() = %d, want 14", set.Len())
	}
}

func TestRandomSensors_WithinBounds(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	set := RandomSensors(rng, 50, -20, 20)
	if set.Len() != 50 {
		t.Fatalf("Len() = %d, want 50", set.Len())
	}
	for i, s := range set.Sensors() {
		for _, v := range []int{s.Location.X, s.Location.Y, s.Beacon.X, s.Beacon.Y} {
			if v < -20 || v > 20 {
				t.Errorf("sensor %d: coordinate %d outside [-20, 20]", i, v)
			}
		}
	}
}

func TestAssertStatusCode(t *testing.T) {
	t.Parallel()

	AssertStatusCode(t, http.StatusOK, http.StatusOK)
	AssertStatusCode(t, http.StatusNotFound, http.StatusNotFound)
}

func TestAssertNoError(t *testing.T) {
	t.Parallel()

	AssertNoError(t, nil)
}

func TestNewTestRequest(t *testing.T) {
	t.Parallel()

	req := NewTestRequest(http.MethodPost, "/api/count?row=10", "Sensor at x=0, y=0: closest beacon is at x=1, y=0")
	if req.Method != http.MethodPost {
		t.Errorf("Method = %q", req.Method)
	}
	if req.URL.Query().Get("row") != "10" {
		t.Errorf("row query = %q", req.URL.Query().Get("row"))
	}
	body, _ := io.ReadAll(req.Body)
	if len(body) == 0 {
		t.Error("expected a request body")
	}

	empty := NewTestRequest(http.MethodGet, "/", "")
	if empty.Header.Get("Content-Type") != "" {
		t.Error("empty request should not set a content type")
	}
}

func TestNewTestRecorder(t *testing.T) {
	t.Parallel()

	rec := NewTestRecorder()
	if rec == nil {
		t.Fatal("NewTestRecorder returned nil")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("default Code = %d, want 200", rec.Code)
	}
}
