// Public domain.

package model

import (
	"math"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/gammastat/sky"
)

// Spatial is a source morphology model for map-based fits.  Density is
// an unnormalized surface density; the map geometry normalizes pixel
// weights so they sum to one over the map.
type Spatial interface {
	Density(c sky.Coord) float64
	Center() sky.Coord
	Params() Params
}

// PointSource is a delta-function morphology.  Map binning assigns its
// whole weight to the pixel containing the center; Density is defined
// only so PointSource satisfies Spatial.
type PointSource struct {
	Pos sky.Coord
}

func (m *PointSource) Density(c sky.Coord) float64 {
	if sky.Separation(m.Pos, c) == 0 {
		return 1
	}
	return 0
}

func (m *PointSource) Center() sky.Coord { return m.Pos }
func (m *PointSource) Params() Params    { return nil }

// GaussSource is a radially symmetric Gaussian morphology with angular
// width Sigma.
type GaussSource struct {
	Pos   sky.Coord
	Sigma unit.Angle
}

func (m *GaussSource) Density(c sky.Coord) float64 {
	th := sky.Separation(m.Pos, c).Rad()
	s := m.Sigma.Rad()
	return math.Exp(-th * th / (2 * s * s))
}

func (m *GaussSource) Center() sky.Coord { return m.Pos }
func (m *GaussSource) Params() Params    { return nil }
