package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// Detrend returns data with its mean removed.
func Detrend(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	mean := stat.Mean(data, nil)
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

// PowerSpectrum returns |X_k| for k in [0, n/2) of the mean-removed series.
// Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	spec := fft.FFTReal(Detrend(data))
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantPeriod returns the period, in samples, of the strongest non-DC
// component, or 0 when the series is flat or too short.
func DominantPeriod(data []float64) float64 {
	ps := PowerSpectrum(data)
	best, bestK := 0.0, 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > best {
			best, bestK = ps[k], k
		}
	}
	if bestK == 0 || best < 1e-12 {
		return 0
	}
	return float64(len(data)) / float64(bestK)
}
