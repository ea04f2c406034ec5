package viz

import (
	"math"

	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
	"gonum.org/v1/gonum/spatial/r3"
)

// Viewport is the ground-plane window shown on a canvas. X runs along the
// canvas columns and Z along its rows.
type Viewport struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

func reactionOf(o grfm.Output, leg gait.Leg) grfm.Reaction {
	if leg == gait.Left {
		return o.Left
	}
	return o.Right
}

// FitViewport bounds the loaded centres of pressure in outputs with a margin
// in metres. Without any load it returns a one metre square about the origin.
func FitViewport(outputs []grfm.Output, margin float64) Viewport {
	v := Viewport{MinX: math.Inf(1), MaxX: math.Inf(-1), MinZ: math.Inf(1), MaxZ: math.Inf(-1)}
	for _, o := range outputs {
		for _, leg := range []gait.Leg{gait.Right, gait.Left} {
			r := reactionOf(o, leg)
			if r.IsZero() {
				continue
			}
			v.MinX, v.MaxX = math.Min(v.MinX, r.Point.X), math.Max(v.MaxX, r.Point.X)
			v.MinZ, v.MaxZ = math.Min(v.MinZ, r.Point.Z), math.Max(v.MaxZ, r.Point.Z)
		}
	}
	if math.IsInf(v.MinX, 1) {
		return Viewport{MinX: -0.5, MaxX: 0.5, MinZ: -0.5, MaxZ: 0.5}
	}
	v.MinX -= margin
	v.MaxX += margin
	v.MinZ -= margin
	v.MaxZ += margin
	return v
}

// Project maps a ground point to canvas sub-pixels.
func (v Viewport) Project(c *Canvas, p r3.Vec) (x, y int) {
	w, h := c.Size()
	sx, sz := v.MaxX-v.MinX, v.MaxZ-v.MinZ
	if sx <= 0 {
		sx = 1
	}
	if sz <= 0 {
		sz = 1
	}
	x = int(math.Round((p.X - v.MinX) / sx * float64(w-1)))
	y = int(math.Round((p.Z - v.MinZ) / sz * float64(h-1)))
	return x, y
}

// DrawCoPPath traces the centre of pressure of leg through outputs. The
// trace is broken wherever the foot is unloaded.
func DrawCoPPath(c *Canvas, v Viewport, outputs []grfm.Output, leg gait.Leg) {
	havePrev := false
	var px, py int
	for _, o := range outputs {
		r := reactionOf(o, leg)
		if r.IsZero() {
			havePrev = false
			continue
		}
		x, y := v.Project(c, r.Point)
		if havePrev {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, havePrev = x, y, true
	}
}

// TopView renders both feet's centre-of-pressure paths onto a new canvas
// fitted to outputs.
func TopView(outputs []grfm.Output, w, h int) *Canvas {
	c := NewCanvas(w, h)
	v := FitViewport(outputs, 0.05)
	DrawCoPPath(c, v, outputs, gait.Right)
	DrawCoPPath(c, v, outputs, gait.Left)
	return c
}
