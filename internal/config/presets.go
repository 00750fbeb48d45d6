package config

import "sort"

func f64(v float64) *float64 { return &v }

var Presets = map[string]map[string]*Config{
	"rotation": {
		"circle": {
			Field: "rotation", Method: "rk4", Direction: "forward", Dt: 0.01, Steps: 629,
			Seed: []float64{1, 0},
		},
		"euler-drift": {
			Field: "rotation", Method: "euler", Direction: "forward", Dt: 0.1, Steps: 200,
			Seed: []float64{1, 0},
		},
	},
	"dipole": {
		"equatorial": {
			Field: "dipole", Method: "rk4", Direction: "both", Dt: 0.01, Steps: 4000,
			Seed:   []float64{1, 0, 0},
			Bounds: &BoundsConfig{Min: f64(0.2), Max: f64(10)},
		},
		"polar": {
			Field: "dipole", Method: "rk4", Direction: "both", Dt: 0.01, Steps: 4000,
			Seed:   []float64{0.3, 0, 0.95},
			Bounds: &BoundsConfig{Min: f64(0.2), Max: f64(10)},
		},
		"boxed": {
			Field: "dipole", Method: "rk4", Direction: "both", Dt: 0.01, Steps: 4000,
			Seed:   []float64{2, 0, 0},
			Bounds: &BoundsConfig{Lo: []float64{-1.5, -1.5, -1.5}, Hi: []float64{1.5, 1.5, 1.5}},
		},
	},
	"dipole2d": {
		"loop": {
			Field: "dipole2d", Method: "rk4", Direction: "both", Dt: 0.005, Steps: 2000,
			Seed:   []float64{1, 0},
			Bounds: &BoundsConfig{Min: f64(0.05), Max: f64(5)},
		},
	},
	"vanderpol": {
		"limit-cycle": {
			Field: "vanderpol", Method: "rk4", Direction: "forward", Dt: 0.01, Steps: 3000,
			Seed:   []float64{0.1, 0},
			Bounds: &BoundsConfig{Lo: []float64{-5, -5}, Hi: []float64{5, 5}},
		},
		"relaxation": {
			Field: "vanderpol", Method: "rk4", Direction: "forward", Dt: 0.01, Steps: 5000,
			Params: map[string]float64{"mu": 5},
			Seed:   []float64{2, 0},
			Bounds: &BoundsConfig{Lo: []float64{-10, -20}, Hi: []float64{10, 20}},
		},
	},
	"saddle": {
		"separatrix": {
			Field: "saddle", Method: "rk4", Direction: "both", Dt: 0.01, Steps: 1000,
			Seed:   []float64{0.01, 1},
			Bounds: &BoundsConfig{Lo: []float64{-2, -2}, Hi: []float64{2, 2}},
		},
	},
	"lorenz": {
		"butterfly": {
			Field: "lorenz", Method: "rk4", Direction: "forward", Dt: 0.05, Steps: 5000,
			Seed:   []float64{1, 1, 1},
			Bounds: &BoundsConfig{Max: f64(100)},
		},
	},
	"radial": {
		"escape": {
			Field: "radial", Method: "euler", Direction: "both", Dt: 0.05, Steps: 400,
			Seed:   []float64{0.5, 0.5},
			Bounds: &BoundsConfig{Min: f64(0.1), Max: f64(5)},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(fieldName, preset string) *Config {
	fieldPresets, ok := Presets[fieldName]
	if !ok {
		return nil
	}
	cfg, ok := fieldPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(fieldName string) []string {
	fieldPresets, ok := Presets[fieldName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fieldPresets))
	for name := range fieldPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
