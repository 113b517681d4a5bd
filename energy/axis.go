// Public domain.

// Package energy defines binned energy axes.
//
// An analysis declares two axes up front: a true-energy axis over which
// exposure and flux integrals are evaluated, and a reconstructed-energy
// axis over which counts are histogrammed.  Both are fixed for the life
// of a dataset.  Energies are in TeV throughout.
package energy

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
)

// Axis is an ordered sequence of energy bin edges.  Bin i spans
// [edge i, edge i+1).  An Axis is immutable after construction.
type Axis struct {
	edges []float64
}

// NewAxis creates an axis from explicit bin edges.  Edges must be
// positive and strictly increasing, with at least two of them.
func NewAxis(edges []float64) (Axis, error) {
	if len(edges) < 2 {
		return Axis{}, errors.New("energy: axis needs at least two edges")
	}
	for i, e := range edges {
		if e <= 0 || math.IsNaN(e) {
			return Axis{}, fmt.Errorf("energy: edge %d not positive: %g", i, e)
		}
		if i > 0 && e <= edges[i-1] {
			return Axis{}, fmt.Errorf("energy: edges not increasing at %d", i)
		}
	}
	return Axis{edges: append([]float64{}, edges...)}, nil
}

// LogAxis creates an axis of n bins spaced logarithmically from emin
// to emax, the usual binning for gamma-ray spectra.
func LogAxis(emin, emax float64, n int) (Axis, error) {
	if n < 1 {
		return Axis{}, errors.New("energy: need at least one bin")
	}
	if !(emin > 0) || !(emax > emin) {
		return Axis{}, fmt.Errorf("energy: bad range [%g, %g]", emin, emax)
	}
	edges := make([]float64, n+1)
	l0, l1 := math.Log(emin), math.Log(emax)
	for i := range edges {
		edges[i] = math.Exp(l0 + (l1-l0)*float64(i)/float64(n))
	}
	edges[0] = emin
	edges[n] = emax
	return Axis{edges: edges}, nil
}

// NBins returns the number of bins.
func (a Axis) NBins() int { return len(a.edges) - 1 }

// Edges returns a copy of the bin edges.
func (a Axis) Edges() []float64 { return append([]float64{}, a.edges...) }

// Lo returns the lower edge of bin i.
func (a Axis) Lo(i int) float64 { return a.edges[i] }

// Hi returns the upper edge of bin i.
func (a Axis) Hi(i int) float64 { return a.edges[i+1] }

// Center returns the geometric mean energy of bin i.
func (a Axis) Center(i int) float64 {
	return math.Sqrt(a.edges[i] * a.edges[i+1])
}

// EMin returns the lower bound of the axis.
func (a Axis) EMin() float64 { return a.edges[0] }

// EMax returns the upper bound of the axis.
func (a Axis) EMax() float64 { return a.edges[len(a.edges)-1] }

// FindBin returns the bin holding energy e, or -1 if e falls outside
// the axis.
func (a Axis) FindBin(e float64) int {
	if e < a.edges[0] {
		return -1
	}
	// linear scan; axes are a few tens of bins
	for i := 1; i < len(a.edges); i++ {
		if e < a.edges[i] {
			return i - 1
		}
	}
	return -1
}

// Slice returns the sub-axis covering bins [i, j).
func (a Axis) Slice(i, j int) Axis {
	return Axis{edges: append([]float64{}, a.edges[i:j+1]...)}
}

// Equal reports whether two axes have identical edges.
func (a Axis) Equal(b Axis) bool {
	if len(a.edges) != len(b.edges) {
		return false
	}
	for i, e := range a.edges {
		if e != b.edges[i] {
			return false
		}
	}
	return true
}

// GobEncode implements gob.GobEncoder so axes survive dataset files.
func (a Axis) GobEncode() ([]byte, error) {
	var b bytes.Buffer
	err := gob.NewEncoder(&b).Encode(a.edges)
	return b.Bytes(), err
}

// GobDecode implements gob.GobDecoder.
func (a *Axis) GobDecode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(&a.edges)
}

func (a Axis) String() string {
	return fmt.Sprintf("[%g, %g] TeV, %d bins", a.EMin(), a.EMax(), a.NBins())
}
