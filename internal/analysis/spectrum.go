package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/spatial/r3"
)

// MinSamples is the shortest series DominantPeriod accepts.
const MinSamples = 8

var ErrTooShort = errors.New("analysis: series too short")

// PowerSpectrum returns the magnitude of the first half of the FFT of a
// mean-removed, Hann-windowed copy of data.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		w := 1.0
		if n > 1 {
			w = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period, in the units of interval, of the
// strongest non-constant component of data sampled every interval.
func DominantPeriod(data []float64, interval float64) (float64, error) {
	if len(data) < MinSamples {
		return 0, ErrTooShort
	}
	if !(interval > 0) {
		return 0, errors.New("analysis: interval must be positive")
	}

	ps := PowerSpectrum(data)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if best == 0 || ps[best] == 0 {
		return 0, errors.New("analysis: series has no periodic component")
	}
	return float64(len(data)) * interval / float64(best), nil
}

// Axis picks one coordinate out of a trajectory.
func Axis(points []r3.Vec, axis func(r3.Vec) float64) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = axis(p)
	}
	return out
}

func X(v r3.Vec) float64 { return v.X }
func Z(v r3.Vec) float64 { return v.Z }
