package analysis

import (
	"math"
	"testing"
)

func TestDominantFrequency_PureTone(t *testing.T) {
	n := 2000
	dt := 1e-3
	freq := 50.0 // exactly on a frequency bin: 50 = 100 / (2000 * 1e-3)

	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) * dt)
	}

	got := DominantFrequency(data, dt)
	if math.Abs(got-freq) > 1.0/(float64(n)*dt) {
		t.Errorf("dominant frequency: got %g Hz, want %g Hz", got, freq)
	}
}

func TestDominantFrequency_IgnoresDC(t *testing.T) {
	n := 1024
	dt := 1e-2
	freq := 5.0

	data := make([]float64, n)
	for i := range data {
		// Large DC offset must not win over the oscillation.
		data[i] = 100 + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}

	got := DominantFrequency(data, dt)
	if math.Abs(got-freq) > 2.0/(float64(n)*dt) {
		t.Errorf("dominant frequency with DC offset: got %g Hz, want %g Hz", got, freq)
	}
}

func TestPowerSpectrum_Shape(t *testing.T) {
	data := make([]float64, 256)
	ps := PowerSpectrum(data)
	if len(ps) != 128 {
		t.Errorf("spectrum length: got %d, want 128", len(ps))
	}

	if PowerSpectrum(nil) != nil {
		t.Error("empty input should return nil")
	}
}

func TestDominantFrequency_DegenerateInput(t *testing.T) {
	if f := DominantFrequency([]float64{1, 2}, 0); f != 0 {
		t.Errorf("dt=0 should give 0, got %g", f)
	}
	if f := DominantFrequency([]float64{1}, 1e-3); f != 0 {
		t.Errorf("too-short signal should give 0, got %g", f)
	}
}
