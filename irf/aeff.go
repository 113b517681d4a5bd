// Public domain.

// Package irf holds the instrument response components the analysis
// consumes: effective area as a function of true energy and the energy
// dispersion mapping true to reconstructed energy.  The multi-table
// response formats of the data distributions are reduced by the data
// store to these per-observation curves before they reach us.
package irf

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// EffArea is an effective-area curve: tabulated (energy, area) nodes
// interpolated piecewise-linearly in log energy.
type EffArea struct {
	Energy []float64 // node energies, TeV, strictly increasing
	Area   []float64 // m², non-negative

	pl    interp.PiecewiseLinear
	fitOK bool
}

// NewEffArea validates the node tables and prepares interpolation.
func NewEffArea(energy, area []float64) (*EffArea, error) {
	a := &EffArea{Energy: energy, Area: area}
	if err := a.init(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *EffArea) init() error {
	if len(a.Energy) < 2 || len(a.Energy) != len(a.Area) {
		return errors.New("irf: effective area needs matching node tables")
	}
	logE := make([]float64, len(a.Energy))
	for i, e := range a.Energy {
		if e <= 0 {
			return fmt.Errorf("irf: node energy %d not positive", i)
		}
		if a.Area[i] < 0 {
			return fmt.Errorf("irf: node area %d negative", i)
		}
		logE[i] = math.Log(e)
	}
	if err := a.pl.Fit(logE, a.Area); err != nil {
		return fmt.Errorf("irf: effective area: %w", err)
	}
	a.fitOK = true
	return nil
}

// At returns the effective area at energy e in m².  Energies outside
// the table are clamped to the end nodes.
func (a *EffArea) At(e float64) float64 {
	if !a.fitOK {
		if err := a.init(); err != nil { // after gob decode
			return 0
		}
	}
	switch {
	case e <= a.Energy[0]:
		return a.Area[0]
	case e >= a.Energy[len(a.Energy)-1]:
		return a.Area[len(a.Area)-1]
	}
	v := a.pl.Predict(math.Log(e))
	if v < 0 {
		return 0
	}
	return v
}

// SafeThreshold returns the lowest node energy at which the effective
// area reaches frac of its maximum.  It implements the usual
// safe-energy-range policy: reconstructed bins below the threshold are
// masked out of fits because the response there is unreliable.
func (a *EffArea) SafeThreshold(frac float64) float64 {
	amax := 0.
	for _, v := range a.Area {
		if v > amax {
			amax = v
		}
	}
	for i, v := range a.Area {
		if v >= frac*amax {
			return a.Energy[i]
		}
	}
	return a.Energy[len(a.Energy)-1]
}
