// Package analysis provides spectral analysis of ring trajectories.
package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude spectrum of a real signal,
// one value per frequency bin up to the Nyquist bin.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	spec := fft.FFTReal(data)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz with the largest spectral
// magnitude, ignoring the DC bin. dt is the sample spacing of the signal.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	maxIdx := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}

	return float64(maxIdx) / (float64(len(data)) * dt)
}
