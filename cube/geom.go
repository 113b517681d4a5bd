// Public domain.

// Package cube implements 3-D map datasets for spectro-morphological
// fits: counts, exposure and background template cubes on a square
// tangent-plane pixel grid with an energy axis.
//
// Cubes store their data in a single flat slice indexed by (energy,
// row, column), the same multi-dimensional binning scheme the 1-D
// pipeline's model files use.
package cube

import (
	"errors"
	"math"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/gammastat/energy"
	"github.com/soniakeys/gammastat/sky"
)

// Geom is a square tangent-plane pixel grid: NPix pixels on a side,
// BinSz wide each, centered on Center.  Row index runs with
// declination, column index with right ascension.
type Geom struct {
	Center sky.Coord
	NPix   int
	BinSz  unit.Angle
}

// Check validates the geometry.
func (g Geom) Check() error {
	if g.NPix < 1 {
		return errors.New("cube: geometry needs at least one pixel")
	}
	if !(g.BinSz.Rad() > 0) {
		return errors.New("cube: pixel size not positive")
	}
	return nil
}

// PixCoord returns the sky coordinate of the center of pixel (iy, ix).
func (g Geom) PixCoord(iy, ix int) sky.Coord {
	half := float64(g.NPix-1) / 2
	dy := (float64(iy) - half) * g.BinSz.Rad()
	dx := (float64(ix) - half) * g.BinSz.Rad()
	dec := g.Center.Dec.Rad() + dy
	ra := g.Center.RA.Rad() + dx/math.Cos(g.Center.Dec.Rad())
	return sky.Coord{RA: unit.Angle(ra), Dec: unit.Angle(dec)}
}

// PixOf returns the pixel holding coordinate c, or ok=false if c falls
// off the grid.
func (g Geom) PixOf(c sky.Coord) (iy, ix int, ok bool) {
	half := float64(g.NPix-1) / 2
	dy := c.Dec.Rad() - g.Center.Dec.Rad()
	dx := (c.RA.Rad() - g.Center.RA.Rad()) * math.Cos(g.Center.Dec.Rad())
	iy = int(math.Round(dy/g.BinSz.Rad() + half))
	ix = int(math.Round(dx/g.BinSz.Rad() + half))
	ok = iy >= 0 && iy < g.NPix && ix >= 0 && ix < g.NPix
	return
}

// SolidAngle returns the solid angle of one pixel in steradians, in the
// small-pixel approximation.
func (g Geom) SolidAngle() float64 {
	s := g.BinSz.Rad()
	return s * s
}

// Map is a data cube on a geometry and an energy axis, stored flat.
type Map struct {
	Geom Geom
	Ax   energy.Axis
	Data []float64
}

// NewMap allocates a zero-filled map.
func NewMap(g Geom, ax energy.Axis) *Map {
	return &Map{Geom: g, Ax: ax, Data: make([]float64, ax.NBins()*g.NPix*g.NPix)}
}

// Idx returns the flat index of (energy bin ie, row iy, column ix).
func (m *Map) Idx(ie, iy, ix int) int {
	return (ie*m.Geom.NPix+iy)*m.Geom.NPix + ix
}

// At returns the value at (ie, iy, ix).
func (m *Map) At(ie, iy, ix int) float64 { return m.Data[m.Idx(ie, iy, ix)] }

// Set stores v at (ie, iy, ix).
func (m *Map) Set(ie, iy, ix int, v float64) { m.Data[m.Idx(ie, iy, ix)] = v }

// Add adds v at (ie, iy, ix).
func (m *Map) Add(ie, iy, ix int, v float64) { m.Data[m.Idx(ie, iy, ix)] += v }

// Total returns the sum over all cells.
func (m *Map) Total() float64 {
	sum := 0.
	for _, v := range m.Data {
		sum += v
	}
	return sum
}

// Clone returns a deep copy sharing the axis.
func (m *Map) Clone() *Map {
	c := *m
	c.Data = append([]float64{}, m.Data...)
	return &c
}

// SameShape reports whether two maps share geometry and axis.
func (m *Map) SameShape(o *Map) bool {
	return m.Geom == o.Geom && m.Ax.Equal(o.Ax)
}
