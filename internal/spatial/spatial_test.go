package spatial

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-12

func near(a, b r3.Vec, eps float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= eps
}

func TestClip(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"inside", 0.3, 0.3},
		{"below", -2, 0},
		{"above", 7, 1},
		{"nan", math.NaN(), 0},
		{"+inf", math.Inf(1), 1},
		{"-inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clip(tt.x, 0, 1); got != tt.expected {
				t.Errorf("Clip(%v) = %v, want %v", tt.x, got, tt.expected)
			}
		})
	}
}

func TestProjectOnPlane(t *testing.T) {
	v := r3.Vec{X: 1, Y: 2, Z: 3}
	got := ProjectOnPlane(v, r3.Vec{}, r3.Vec{Y: 1})
	if !near(got, r3.Vec{X: 1, Z: 3}, tol) {
		t.Errorf("expected vertical component removed, got %v", got)
	}

	if got := ProjectOnPlane(v, r3.Vec{}, r3.Vec{}); got != v {
		t.Errorf("zero normal should leave the vector untouched, got %v", got)
	}
}

func TestAxisAngle(t *testing.T) {
	R := AxisAngle(r3.Vec{Y: 1}, math.Pi/2)
	got := R.MulVec(r3.Vec{X: 1})
	if !near(got, r3.Vec{Z: -1}, 1e-12) {
		t.Errorf("expected +X to map to -Z about +Y, got %v", got)
	}

	I := AxisAngle(r3.Vec{}, 1.0)
	if !near(I.MulVec(r3.Vec{X: 1, Y: 2, Z: 3}), r3.Vec{X: 1, Y: 2, Z: 3}, tol) {
		t.Error("zero axis should give identity")
	}
}

func TestRotationVectorMatchesAxisAngle(t *testing.T) {
	axis := r3.Unit(r3.Vec{X: 1, Y: 1, Z: 0})
	rv := r3.Scale(0.7, axis)
	a := RotationVector(rv)
	b := AxisAngle(axis, 0.7)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > tol {
				t.Fatalf("mismatch at (%d,%d): %f vs %f", i, j, a.At(i, j), b.At(i, j))
			}
		}
	}
}

func TestTransformCompose(t *testing.T) {
	parent := Transform{R: AxisAngle(r3.Vec{Z: 1}, math.Pi/2), P: r3.Vec{X: 1}}
	child := Transform{R: Eye(), P: r3.Vec{X: 2}}

	got := parent.Compose(child)
	if !near(got.P, r3.Vec{X: 1, Y: 2}, 1e-12) {
		t.Errorf("expected child origin at (1,2,0), got %v", got.P)
	}
	if !near(got.Apply(r3.Vec{X: 1}), r3.Vec{X: 1, Y: 3}, 1e-12) {
		t.Errorf("unexpected composed point %v", got.Apply(r3.Vec{X: 1}))
	}
}

func TestInertiaInGround(t *testing.T) {
	mp := MassProperties{Mass: 2, Inertia: Diag(1, 2, 3)}
	R := AxisAngle(r3.Vec{Z: 1}, math.Pi/2)
	Iw := mp.InertiaInGround(R)

	// a quarter turn about Z swaps the X and Y principal moments
	if math.Abs(Iw.At(0, 0)-2) > 1e-12 || math.Abs(Iw.At(1, 1)-1) > 1e-12 || math.Abs(Iw.At(2, 2)-3) > 1e-12 {
		t.Errorf("unexpected ground inertia diag (%f, %f, %f)", Iw.At(0, 0), Iw.At(1, 1), Iw.At(2, 2))
	}
}

func TestVecArithmetic(t *testing.T) {
	a := Vec{Angular: r3.Vec{X: 1}, Linear: r3.Vec{Y: 2}}
	b := Vec{Angular: r3.Vec{X: 3}, Linear: r3.Vec{Y: 4}}

	sum := a.Add(b)
	if sum.Angular.X != 4 || sum.Linear.Y != 6 {
		t.Errorf("Add failed: got %+v", sum)
	}
	if diff := b.Sub(a); diff.Angular.X != 2 || diff.Linear.Y != 2 {
		t.Errorf("Sub failed: got %+v", diff)
	}
	if s := a.Scale(2); s.Angular.X != 2 || s.Linear.Y != 4 {
		t.Errorf("Scale failed: got %+v", s)
	}
	if !a.IsFinite() {
		t.Error("expected finite")
	}
	if (Vec{Linear: r3.Vec{Z: math.NaN()}}).IsFinite() {
		t.Error("expected NaN to be reported as non-finite")
	}
}
