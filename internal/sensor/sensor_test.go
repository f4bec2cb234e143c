package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManhattanDistance(t *testing.T) {
	testCases := []struct {
		name string
		a, b Position
		want int
	}{
		{"same", Position{3, 3}, Position{3, 3}, 0},
		{"horizontal", Position{4, 0}, Position{1, 0}, 3},
		{"diagonal", Position{5, 2}, Position{3, 1}, 3},
		{"negative", Position{-2, -1}, Position{3, 3}, 9},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.ManhattanDistance(tc.b))
			assert.Equal(t, tc.want, tc.b.ManhattanDistance(tc.a))
		})
	}
}

func TestNewSensor_FixesRadius(t *testing.T) {
	s := NewSensor(Position{8, 7}, Position{2, 10})
	assert.Equal(t, 9, s.Radius)
	assert.True(t, s.Covers(Position{2, 10}), "beacon must lie on the diamond")
	assert.True(t, s.Covers(Position{8, -2}))
	assert.False(t, s.Covers(Position{8, -3}))
}

func TestSensor_HalfWidth(t *testing.T) {
	s := NewSensor(Position{8, 7}, Position{2, 10})

	assert.Equal(t, 9, s.HalfWidth(7))
	assert.Equal(t, 0, s.HalfWidth(16), "tangent row")
	assert.Equal(t, 0, s.HalfWidth(-2), "tangent row")
	assert.Negative(t, s.HalfWidth(17))
}

func TestSet_Immutable(t *testing.T) {
	in := []Sensor{NewSensor(Position{0, 0}, Position{1, 0})}
	set := NewSet(in...)
	in[0].Radius = 100

	require.Equal(t, 1, set.Len())
	assert.Equal(t, 1, set.At(0).Radius)

	out := set.Sensors()
	out[0].Radius = 50
	assert.Equal(t, 1, set.At(0).Radius)
}

func TestSet_Extent(t *testing.T) {
	var empty *Set
	_, _, ok := empty.Extent()
	assert.False(t, ok)
	assert.Zero(t, empty.Len())

	set := NewSet(
		NewSensor(Position{0, 0}, Position{2, 0}),
		NewSensor(Position{10, 5}, Position{10, 6}),
	)
	min, max, ok := set.Extent()
	require.True(t, ok)
	assert.Equal(t, Position{-2, -2}, min)
	assert.Equal(t, Position{11, 6}, max)
}
