package grfm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/san-kum/grfm/internal/body"
	"github.com/san-kum/grfm/internal/gait"
)

func benchEngine(b *testing.B, method string) (*Engine, Input) {
	a := body.DefaultAnthropometry()
	m := body.NewLowerLimb(a)
	heel, toe := body.FootStations(a)
	src := &gait.Static{IsReady: true, Current: gait.DoubleSupport, Leading: gait.Left, HeelStrike: 0, Tds: 0.12, Tss: 0.4}

	e, err := New(m, Parameters{
		Method:              method,
		RightStationBody:    "calcn_r",
		LeftStationBody:     "calcn_l",
		RightHeel:           heel,
		LeftHeel:            heel,
		RightToe:            toe,
		LeftToe:             toe,
		PelvisBody:          "pelvis",
		DirectionWindowSize: 10,
	}, src, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		b.Fatal(err)
	}

	n := m.NumCoordinates()
	in := Input{T: 0.05, Q: make([]float64, n), QDot: make([]float64, n), QDDot: make([]float64, n)}
	in.Q[4] = body.StandingPelvisHeight(a)
	for i := 6; i < n; i++ {
		in.Q[i] = 0.1
		in.QDot[i] = 0.5
		in.QDDot[i] = -1
	}
	return e, in
}

func BenchmarkSolveNewtonEuler(b *testing.B) {
	e, in := benchEngine(b, "ne")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Solve(in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolveInverseDynamics(b *testing.B) {
	e, in := benchEngine(b, "id")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Solve(in); err != nil {
			b.Fatal(err)
		}
	}
}
