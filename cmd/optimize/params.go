package main

import (
	"fmt"

	"github.com/pthm-cable/plife/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Index   int     // element index for matrix entries
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

const pathMatrix = "simulation.attraction_matrix"

// NewParamVector creates the standard set of optimizable parameters,
// defaulting to the values in base. With tuneMatrix every attraction matrix
// entry becomes a parameter too.
func NewParamVector(base config.SimulationConfig, tuneMatrix bool) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "force_factor", Path: "simulation.force_factor", Min: 1, Max: 100, Default: float64(base.ForceFactor)},
			{Name: "friction_half_life", Path: "simulation.friction_half_life", Min: 0.005, Max: 0.2, Default: float64(base.FrictionHalfLife)},
			{Name: "r_max", Path: "simulation.r_max", Min: 20, Max: 120, Default: float64(base.RMax)},
		},
	}
	if tuneMatrix {
		types := base.TypeCount
		for i, a := range base.AttractionMatrix {
			pv.Specs = append(pv.Specs, ParamSpec{
				Name:    fmt.Sprintf("a_%d_%d", i/types, i%types),
				Path:    pathMatrix,
				Index:   i,
				Min:     -1,
				Max:     1,
				Default: float64(a),
			})
		}
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values, clamped to bounds.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return pv.Clamp(v)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig returns a copy of sim with the parameter values applied and
// derived values recomputed.
func (pv *ParamVector) ApplyToConfig(sim config.SimulationConfig, values []float64) config.SimulationConfig {
	out := sim.Clone()
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		v := float32(clamped[i])
		switch spec.Path {
		case "simulation.force_factor":
			out.ForceFactor = v
		case "simulation.friction_half_life":
			out.FrictionHalfLife = v
		case "simulation.r_max":
			out.RMax = v
		case pathMatrix:
			out.AttractionMatrix[spec.Index] = v
		}
	}
	out.Derive()
	return out
}

// ExtractFromConfig extracts current parameter values from a config.
func (pv *ParamVector) ExtractFromConfig(sim config.SimulationConfig) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		switch spec.Path {
		case "simulation.force_factor":
			v[i] = float64(sim.ForceFactor)
		case "simulation.friction_half_life":
			v[i] = float64(sim.FrictionHalfLife)
		case "simulation.r_max":
			v[i] = float64(sim.RMax)
		case pathMatrix:
			v[i] = float64(sim.AttractionMatrix[spec.Index])
		}
	}
	return v
}
