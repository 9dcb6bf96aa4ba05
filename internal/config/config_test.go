package config

import (
	"path/filepath"
	"testing"

	"github.com/mohamedorhan/eemring/internal/ring"
)

func TestDefaultConfigResolvesToDefaultRing(t *testing.T) {
	got := DefaultConfig().Ring()
	want := ring.DefaultConfig()

	if got.N != want.N || got.L != want.L || got.C != want.C || got.Cc != want.Cc {
		t.Errorf("default mapping mismatch: got %+v, want %+v", got, want)
	}
	if got.R != want.R || got.TFinal != want.TFinal || got.Samples != want.Samples {
		t.Errorf("default mapping mismatch: got %+v, want %+v", got, want)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestRing_ZeroFieldsFallBackToDefaults(t *testing.T) {
	cfg := &Config{Cells: 8, Resistance: 0.5}
	r := cfg.Ring()

	if r.N != 8 {
		t.Errorf("cells: got %d, want 8", r.N)
	}
	if r.R != 0.5 {
		t.Errorf("resistance: got %g, want 0.5", r.R)
	}
	if r.L != ring.DefaultL || r.Samples != ring.DefaultSamples {
		t.Error("unset fields should fall back to defaults")
	}
}

func TestRing_LosslessOverridesResistance(t *testing.T) {
	cfg := &Config{LosslessRing: true}
	if r := cfg.Ring(); r.R != 0 {
		t.Errorf("lossless should force R=0, got %g", r.R)
	}
}

func TestLoadSave_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.yaml")

	cfg := DefaultConfig()
	cfg.Cells = 24
	cfg.Resistance = 2e-3
	cfg.InitialCells = []int{0, 12}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Cells != 24 || loaded.Resistance != 2e-3 {
		t.Errorf("roundtrip mismatch: %+v", loaded)
	}
	if len(loaded.InitialCells) != 2 || loaded.InitialCells[1] != 12 {
		t.Errorf("initial cells roundtrip mismatch: %v", loaded.InitialCells)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPresets(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("unknown preset should be nil")
	}

	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}

	for _, name := range names {
		p := GetPreset(name)
		if p == nil {
			t.Fatalf("preset %s vanished", name)
		}
		if err := p.Ring().Validate(); err != nil {
			t.Errorf("preset %s should resolve to a valid config: %v", name, err)
		}
	}
}

func TestPreset_Lossless(t *testing.T) {
	p := GetPreset("lossless")
	if p == nil {
		t.Fatal("lossless preset missing")
	}
	if r := p.Ring(); r.R != 0 {
		t.Errorf("lossless preset should give R=0, got %g", r.R)
	}
}

func TestSigma(t *testing.T) {
	if s := (&Config{}).Sigma(); s != DefaultSmoothSigma {
		t.Errorf("unset sigma should default, got %g", s)
	}
	if s := (&Config{SmoothSigma: 2.5}).Sigma(); s != 2.5 {
		t.Errorf("sigma: got %g, want 2.5", s)
	}
}
