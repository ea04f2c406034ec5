package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrShortSignal = errors.New("analysis: signal too short")
	ErrBadSampling = errors.New("analysis: sample times are not increasing")
)

// SampleRate is the mean rate of times.
func SampleRate(times []float64) (float64, error) {
	if len(times) < 2 {
		return 0, ErrShortSignal
	}
	span := times[len(times)-1] - times[0]
	if !(span > 0) {
		return 0, ErrBadSampling
	}
	return float64(len(times)-1) / span, nil
}

// PowerSpectrum returns the one-sided power of signal after removing its
// mean, with the matching frequencies in Hz.
func PowerSpectrum(signal []float64, rate float64) (freqs, power []float64) {
	n := len(signal)
	if n == 0 {
		return nil, nil
	}

	x := make([]float64, n)
	copy(x, signal)
	floats.AddConst(-floats.Sum(x)/float64(n), x)

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, x)

	freqs = make([]float64, len(coeff))
	power = make([]float64, len(coeff))
	for i, c := range coeff {
		freqs[i] = fft.Freq(i) * rate
		a := cmplx.Abs(c)
		power[i] = a * a / float64(n)
	}
	return freqs, power
}

// DominantFrequency is the frequency of the strongest non-DC bin, refined by
// parabolic interpolation over its neighbours.
func DominantFrequency(signal []float64, rate float64) (float64, error) {
	if len(signal) < 4 {
		return 0, ErrShortSignal
	}
	freqs, power := PowerSpectrum(signal, rate)

	k := floats.MaxIdx(power[1:]) + 1
	if power[k] == 0 {
		return 0, nil
	}
	if k == len(power)-1 {
		return freqs[k], nil
	}

	a, b, c := power[k-1], power[k], power[k+1]
	den := a - 2*b + c
	shift := 0.0
	if den != 0 {
		shift = 0.5 * (a - c) / den
	}
	return freqs[k] + shift*(freqs[1]-freqs[0]), nil
}

type CadenceEstimate struct {
	StepFrequency  float64 // Hz
	StepsPerMinute float64
	StrideTime     float64 // s
}

// Cadence estimates the step rate from a signal that repeats once per step,
// such as the total vertical force.
func Cadence(times, signal []float64) (CadenceEstimate, error) {
	if len(times) != len(signal) {
		return CadenceEstimate{}, errors.New("analysis: times and signal differ in length")
	}
	rate, err := SampleRate(times)
	if err != nil {
		return CadenceEstimate{}, err
	}
	f, err := DominantFrequency(signal, rate)
	if err != nil {
		return CadenceEstimate{}, err
	}

	if math.IsNaN(f) {
		return CadenceEstimate{}, ErrBadSampling
	}

	est := CadenceEstimate{StepFrequency: f, StepsPerMinute: 60 * f}
	if f > 0 {
		est.StrideTime = 2 / f
	}
	return est, nil
}
