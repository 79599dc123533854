package config

import "sort"

// Presets are ready-made propagation problems, keyed by name.
var Presets = map[string]*Config{
	// Heat diffusion on a 1D grid: stiff negative spectrum, exercises the
	// adaptive step-size loop.
	"heat": {
		T: 0.1, Tol: 1e-7, M: 20,
		Operator: OperatorConfig{Type: "laplacian", Size: 128, Spacing: 0.01},
	},
	// Independent exponential decay channels with a known closed form.
	"decay": {
		T: 1.0, Tol: 1e-8,
		Operator: OperatorConfig{Type: "diagonal", Diag: []float64{-0.25, -0.5, -1, -2, -4, -8}},
	},
	// Planar rotation: e^(tA) is a rotation by t.
	"oscillator": {
		T: 3.141592653589793, Tol: 1e-10,
		Operator: OperatorConfig{Type: "dense", Rows: [][]float64{{0, -1}, {1, 0}}},
		InitVector: []float64{1, 0},
	},
	// Undamped mass-spring chain with fixed walls.
	"chain": {
		T: 0.5, Tol: 1e-7, M: 24,
		Operator: OperatorConfig{Type: "chain", Size: 32, Spring: 100, Mass: 1},
	},
}

// GetPreset returns the named preset, or nil.
func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns all preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
