package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Run.Integrator != DefaultIntegrator {
		t.Errorf("integrator = %s, want %s", cfg.Run.Integrator, DefaultIntegrator)
	}
	if cfg.Run.Ticks <= 0 {
		t.Error("ticks should be positive")
	}
	if got, want := cfg.Params(), dynamo.DefaultParams(); got != want {
		t.Errorf("Params() = %+v, want %+v", got, want)
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("GetPreset(%q) = nil", name)
		}
		if err := cfg.Params().Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPresetIsCopy(t *testing.T) {
	a := GetPreset("storm")
	a.Run.Metrics[0] = "changed"
	a.Population.Target = 1

	b := GetPreset("storm")
	if b.Run.Metrics[0] == "changed" || b.Population.Target == 1 {
		t.Error("mutating a preset copy changed the preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"decay", "dense", "ring", "sparse", "storm"}
	got := ListPresets()
	if len(got) != len(want) {
		t.Fatalf("ListPresets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListPresets()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("dense")
	cfg.Body.Shape = "cube"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Params() != cfg.Params() {
		t.Errorf("loaded params = %+v, want %+v", got.Params(), cfg.Params())
	}
}

func TestLoadPartialYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := "population:\n  target: 250\n  replenish: true\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Population.Target != 250 || !cfg.Population.Replenish {
		t.Errorf("population = %+v", cfg.Population)
	}
	if cfg.Physics.CellSize != dynamo.DefaultParams().CellSize {
		t.Errorf("cell size = %v, want default", cfg.Physics.CellSize)
	}
}

func TestLoadINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ini")
	data := `[run]
integrator = verlet
seed = 42
metrics = momentum
metrics = retention

[body]
shape = cube

[physics]
cell-size = 0.2
restitution = 1

[population]
target = 300
replenish = true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := cfg.Params()
	tests := []struct {
		name      string
		got, want any
	}{
		{"integrator", cfg.Run.Integrator, "verlet"},
		{"seed", p.Seed, int64(42)},
		{"shape", p.AbsorptionShape, dynamo.ShapeCube},
		{"cell size", p.CellSize, 0.2},
		{"restitution", p.Restitution, 1.0},
		{"target", p.TargetCount, 300},
		{"replenish", p.Replenish, true},
		{"metrics", len(cfg.Run.Metrics), 2},
		{"mass default", p.CentralMass, dynamo.DefaultParams().CentralMass},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadINIDefaultMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.gcfg")
	if err := os.WriteFile(path, []byte("[population]\ntarget = 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Run.Metrics) != len(DefaultMetrics) {
		t.Errorf("metrics = %v, want defaults", cfg.Run.Metrics)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	for _, name := range Settable() {
		if err := cfg.Set(name, 7); err != nil {
			t.Errorf("Set(%q): %v", name, err)
		}
	}
	if cfg.Physics.Restitution != 7 || cfg.Population.Target != 7 {
		t.Errorf("Set did not assign: %+v", cfg)
	}
	if err := cfg.Set("nope", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
