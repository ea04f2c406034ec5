package config

import "gonum.org/v1/gonum/spatial/r3"

func NewOffset(v r3.Vec) *Offset {
	return &Offset{X: v.X, Y: v.Y, Z: v.Z}
}

func (o *Offset) Vec() r3.Vec {
	return r3.Vec{X: o.X, Y: o.Y, Z: o.Z}
}

// or returns fallback for an unset offset.
func (o *Offset) or(fallback r3.Vec) r3.Vec {
	if o == nil {
		return fallback
	}
	return o.Vec()
}
