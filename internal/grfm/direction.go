package grfm

import (
	"math"

	"github.com/san-kum/grfm/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	vertical = r3.Vec{Y: 1}
	forward  = r3.Vec{X: 1}
)

// DirectionEstimator averages heading axes over a fixed window and turns the
// mean into a rotation about the vertical axis.
type DirectionEstimator struct {
	buf  []r3.Vec
	next int
	full bool
}

// NewDirectionEstimator returns an estimator holding up to size samples.
// Sizes below one are raised to one.
func NewDirectionEstimator(size int) *DirectionEstimator {
	if size < 1 {
		size = 1
	}
	return &DirectionEstimator{buf: make([]r3.Vec, size)}
}

// Update inserts axis, overwriting the oldest sample when the window is full,
// and returns the rotation for the current window mean.
func (d *DirectionEstimator) Update(axis r3.Vec) r3.Rotation {
	d.buf[d.next] = axis
	d.next++
	if d.next == len(d.buf) {
		d.next = 0
		d.full = true
	}
	return headingRotation(d.Mean())
}

// Mean of the buffered samples; zero when empty.
func (d *DirectionEstimator) Mean() r3.Vec {
	n := d.Len()
	if n == 0 {
		return r3.Vec{}
	}
	var sum r3.Vec
	for _, v := range d.buf[:n] {
		sum = r3.Add(sum, v)
	}
	return r3.Scale(1/float64(n), sum)
}

func (d *DirectionEstimator) Len() int {
	if d.full {
		return len(d.buf)
	}
	return d.next
}

func (d *DirectionEstimator) Cap() int { return len(d.buf) }

func (d *DirectionEstimator) Reset() {
	clear(d.buf)
	d.next = 0
	d.full = false
}

// headingRotation projects mean onto the horizontal plane and returns the
// rotation about the vertical that carries X onto it. The magnitude is
// atan(|mean × X| / (mean · X)); the sign follows the vertical component of
// the cross product.
func headingRotation(mean r3.Vec) r3.Rotation {
	h := spatial.ProjectOnPlane(mean, r3.Vec{}, vertical)
	if spatial.IsZero(h) || !spatial.IsFinite(h) {
		return r3.NewRotation(0, vertical)
	}
	cross := r3.Cross(h, forward)
	angle := math.Atan(r3.Norm(cross) / r3.Dot(h, forward))
	if r3.Dot(cross, vertical) > 0 {
		angle = -angle
	}
	return r3.NewRotation(angle, vertical)
}
