package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the discrete Fourier
// transform of series, after removing its mean. Bin k corresponds to a period of
// len(series)/k steps.
func PowerSpectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centred := make([]float64, len(series))
	for i, v := range series {
		centred[i] = v - mean
	}

	coeffs := fft.FFTReal(centred)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// Peak is the strongest non-constant component of a series.
type Peak struct {
	Bin   int
	Power float64
	// Period is measured in steps.
	Period float64
}

// Dominant finds the strongest bin of the spectrum of series. The zero value is
// returned for constant or too-short series.
func Dominant(series []float64) Peak {
	ps := PowerSpectrum(series)
	var p Peak
	for i := 1; i < len(ps); i++ {
		if ps[i] > p.Power {
			p = Peak{Bin: i, Power: ps[i]}
		}
	}
	if p.Bin > 0 {
		p.Period = float64(len(series)) / float64(p.Bin)
	}
	return p
}

// Settle returns the first step from which every later value lies within tol of
// the final value, measured relative to the largest magnitude in series. It
// returns -1 for an empty series.
func Settle(series []float64, tol float64) int {
	if len(series) == 0 {
		return -1
	}
	final := series[len(series)-1]
	scale := 0.0
	for _, v := range series {
		scale = max(scale, v, -v)
	}
	band := tol * max(scale, 1e-12)

	step := len(series) - 1
	for i := len(series) - 1; i >= 0; i-- {
		d := series[i] - final
		if d > band || d < -band {
			break
		}
		step = i
	}
	return step
}
