package calib

import (
	"testing"

	"github.com/itohio/goadc/pkg/adc"
	"github.com/itohio/goadc/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestApply_NoPoints(t *testing.T) {
	var c Calibrator
	for _, v := range []adc.Sample{0, 1, 511, adc.MaxSample, 60000} {
		assert.Equal(t, v, c.Apply(v))
	}
}

func TestApply_TwoPoints(t *testing.T) {
	var c Calibrator
	c.Add(0, 0)
	c.Add(1023, 5000)

	assert.Equal(t, adc.Sample(0), c.Apply(0))
	assert.Equal(t, adc.Sample(5000), c.Apply(1023))
	assert.Equal(t, adc.Sample(2497), c.Apply(511))
}

func TestApply_MultiPoint(t *testing.T) {
	c := FromConfig([]config.CalibrationPoint{
		{Raw: 100, Real: 1000},
		{Raw: 200, Real: 3000},
		{Raw: 400, Real: 3500},
	})

	tests := []struct {
		name string
		in   adc.Sample
		want adc.Sample
	}{
		{name: "below first point clamps", in: 50, want: 1000},
		{name: "first point", in: 100, want: 1000},
		{name: "inside first segment", in: 150, want: 2000},
		{name: "shared point uses first segment", in: 200, want: 3000},
		{name: "inside second segment", in: 333, want: 3000 + 133*500/200},
		{name: "last point", in: 400, want: 3500},
		{name: "above last point clamps", in: 900, want: 3500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Apply(tt.in))
		})
	}
}

func TestApply_DescendingReal(t *testing.T) {
	var c Calibrator
	c.Add(0, 1000)
	c.Add(1000, 0)

	assert.Equal(t, adc.Sample(1000), c.Apply(0))
	assert.Equal(t, adc.Sample(750), c.Apply(250))
	assert.Equal(t, adc.Sample(0), c.Apply(1000))
}

func TestApply_EqualRawPoints(t *testing.T) {
	var c Calibrator
	c.Add(100, 10)
	c.Add(100, 90)
	c.Add(200, 190)

	assert.Equal(t, adc.Sample(10), c.Apply(100), "equal raw values return the left real value")
	assert.Equal(t, adc.Sample(140), c.Apply(150))
}

func TestApply_SinglePoint(t *testing.T) {
	var c Calibrator
	c.Add(500, 42)

	assert.Equal(t, adc.Sample(42), c.Apply(0))
	assert.Equal(t, adc.Sample(42), c.Apply(500))
	assert.Equal(t, adc.Sample(42), c.Apply(1000))
}

func TestAdd_Cap(t *testing.T) {
	var c Calibrator
	for i := range MaxPoints {
		assert.True(t, c.Add(adc.Sample(i*100), adc.Sample(i)))
	}
	assert.False(t, c.Add(2000, 99))
	assert.Equal(t, MaxPoints, c.Len())

	points := c.Points()
	assert.Len(t, points, MaxPoints)
	assert.Equal(t, Point{Raw: 900, Real: 9}, points[MaxPoints-1])

	// Points returns a copy.
	points[0].Real = 1234
	assert.Equal(t, adc.Sample(0), c.Apply(0))

	c.Reset()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, adc.Sample(77), c.Apply(77))
}
