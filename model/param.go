// Public domain.

// Package model defines parametric spectral and spatial source models
// and their parameter containers.
//
// A model instance may be shared by several datasets for a joint fit.
// The sharing is by reference: dataset evaluation reads the parameter
// values, and only the fitter writes them, for the duration of a fit.
package model

import (
	"fmt"
	"math"
)

// Param is one model parameter: a value with bounds and a frozen flag.
// Frozen parameters are held fixed by the fitter.
type Param struct {
	Name     string
	Value    float64
	Min, Max float64 // bounds; Min >= Max means unbounded
	Frozen   bool
}

// NewParam returns an unbounded free parameter.
func NewParam(name string, value float64) *Param {
	return &Param{Name: name, Value: value, Min: math.Inf(-1), Max: math.Inf(1)}
}

// Bounded reports whether the parameter carries usable bounds.
func (p *Param) Bounded() bool { return p.Min < p.Max }

// Clamp forces the value into the parameter's bounds and returns it.
func (p *Param) Clamp() float64 {
	if p.Bounded() {
		if p.Value < p.Min {
			p.Value = p.Min
		} else if p.Value > p.Max {
			p.Value = p.Max
		}
	}
	return p.Value
}

// AtBound reports whether the value sits on a bound, within a relative
// tolerance of the bound magnitude (or absolute for zero bounds).
func (p *Param) AtBound() bool {
	if !p.Bounded() {
		return false
	}
	tol := func(b float64) float64 {
		t := 1e-6 * math.Abs(b)
		if t == 0 {
			t = 1e-12
		}
		return t
	}
	return (!math.IsInf(p.Min, 0) && math.Abs(p.Value-p.Min) <= tol(p.Min)) ||
		(!math.IsInf(p.Max, 0) && math.Abs(p.Value-p.Max) <= tol(p.Max))
}

func (p *Param) String() string {
	frozen := ""
	if p.Frozen {
		frozen = " (frozen)"
	}
	return fmt.Sprintf("%s=%g%s", p.Name, p.Value, frozen)
}

// Params is the ordered parameter list owned by a model.
type Params []*Param

// Free returns the free parameters, deduplicated by identity so a
// parameter shared between models is fitted once.
func (ps Params) Free() Params {
	var free Params
	seen := map[*Param]bool{}
	for _, p := range ps {
		if !p.Frozen && !seen[p] {
			free = append(free, p)
			seen[p] = true
		}
	}
	return free
}

// ByName returns the first parameter with the given name, or nil.
func (ps Params) ByName(name string) *Param {
	for _, p := range ps {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Values returns the current parameter values.
func (ps Params) Values() []float64 {
	v := make([]float64, len(ps))
	for i, p := range ps {
		v[i] = p.Value
	}
	return v
}

// SetValues assigns values in order, clamping to bounds.
func (ps Params) SetValues(v []float64) {
	for i, p := range ps {
		p.Value = v[i]
		p.Clamp()
	}
}

// FreezeAll sets the frozen flag on every parameter.  Used by flux
// point estimation to pin the spectral shape.
func (ps Params) FreezeAll() {
	for _, p := range ps {
		p.Frozen = true
	}
}
