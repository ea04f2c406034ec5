package grfm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b r3.Vec, eps float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= eps
}

func TestDirectionIdenticalSamples(t *testing.T) {
	axis := r3.Vec{X: math.Cos(0.3), Y: 0.1, Z: math.Sin(0.3)}
	probe := r3.Vec{X: 1, Y: 2, Z: 3}

	single := NewDirectionEstimator(1).Update(axis)

	for _, n := range []int{1, 3, 8} {
		d := NewDirectionEstimator(8)
		var rot r3.Rotation
		for i := 0; i < n; i++ {
			rot = d.Update(axis)
		}
		if !near(rot.Rotate(probe), single.Rotate(probe), 1e-12) {
			t.Errorf("%d identical samples: rotation differs from single sample", n)
		}
	}
}

func TestDirectionAngle(t *testing.T) {
	const angle = 0.3
	d := NewDirectionEstimator(4)
	rot := d.Update(r3.Vec{X: math.Cos(angle), Y: 0.5, Z: math.Sin(angle)})

	// X is carried onto the horizontal heading.
	got := rot.Rotate(r3.Vec{X: 1})
	expected := r3.Vec{X: math.Cos(angle), Z: math.Sin(angle)}
	if !near(got, expected, 1e-12) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	mirrored := NewDirectionEstimator(1).Update(r3.Vec{X: math.Cos(angle), Z: -math.Sin(angle)})
	expected = r3.Vec{X: math.Cos(angle), Z: -math.Sin(angle)}
	if got := mirrored.Rotate(r3.Vec{X: 1}); !near(got, expected, 1e-12) {
		t.Errorf("mirrored heading: expected %v, got %v", expected, got)
	}

	// Vertical components are untouched by a rotation about +Y.
	if v := rot.Rotate(r3.Vec{Y: 2}); !near(v, r3.Vec{Y: 2}, 1e-12) {
		t.Errorf("expected vertical preserved, got %v", v)
	}
}

func TestDirectionDegenerateMean(t *testing.T) {
	d := NewDirectionEstimator(2)
	probe := r3.Vec{X: 1, Y: 2, Z: 3}

	rot := d.Update(r3.Vec{Y: 1})
	if !near(rot.Rotate(probe), probe, 1e-15) {
		t.Errorf("expected identity for a vertical axis, got %v", rot.Rotate(probe))
	}

	rot = d.Update(r3.Vec{Y: -1})
	if !near(rot.Rotate(probe), probe, 1e-15) {
		t.Errorf("expected identity for a zero mean, got %v", rot.Rotate(probe))
	}
}

func TestDirectionWindowOverwritesOldest(t *testing.T) {
	d := NewDirectionEstimator(2)
	d.Update(r3.Vec{X: 1})
	d.Update(r3.Vec{X: 3})
	d.Update(r3.Vec{X: 5})

	if d.Len() != 2 || d.Cap() != 2 {
		t.Errorf("expected len 2 cap 2, got len %d cap %d", d.Len(), d.Cap())
	}
	if m := d.Mean(); m != (r3.Vec{X: 4}) {
		t.Errorf("expected mean of the two newest samples, got %v", m)
	}

	d.Reset()
	if d.Len() != 0 || d.Mean() != (r3.Vec{}) {
		t.Error("expected empty window after reset")
	}
}

func TestDirectionMinimumSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		if c := NewDirectionEstimator(size).Cap(); c != 1 {
			t.Errorf("size %d: expected capacity 1, got %d", size, c)
		}
	}
}
