// Public domain.

package cube

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/soniakeys/gammastat/energy"
	"github.com/soniakeys/gammastat/event"
	"github.com/soniakeys/gammastat/model"
	"github.com/soniakeys/gammastat/stats"
)

// Cube is a 3-D map dataset: observed counts over reconstructed energy,
// exposure over true energy, and a background template with one free
// normalization.  The background here is a model component, not an OFF
// measurement, so the fit statistic is Cash rather than WStat.
type Cube struct {
	Name string

	Counts     *Map // reconstructed energy
	Exposure   *Map // true energy, m²·s
	Background *Map // reconstructed energy, expected counts at norm 1

	// BkgNorm scales the background template.  It joins the free
	// parameters of a fit alongside the source model's.
	BkgNorm *model.Param

	// EDisp maps true to reconstructed energy bins, rows summing to
	// at most 1.  Nil means identity, requiring matching axes.
	EDisp *mat.Dense
}

// New assembles a cube dataset around a counts map.  Exposure and
// background must share the counts geometry; the background norm
// starts at 1, bounded non-negative.
func New(name string, counts, exposure, background *Map, edisp *mat.Dense) (*Cube, error) {
	c := &Cube{
		Name:       name,
		Counts:     counts,
		Exposure:   exposure,
		Background: background,
		BkgNorm:    model.NewParam("bkg_norm", 1),
		EDisp:      edisp,
	}
	c.BkgNorm.Min, c.BkgNorm.Max = 0, 1e3
	return c, c.Check()
}

// Check validates the cube invariants.
func (c *Cube) Check() error {
	if c.Counts == nil || c.Exposure == nil || c.Background == nil {
		return errors.New("cube: counts, exposure and background all required")
	}
	if c.Counts.Geom != c.Exposure.Geom || c.Counts.Geom != c.Background.Geom {
		return errors.New("cube: maps on different geometries")
	}
	if err := c.Counts.Geom.Check(); err != nil {
		return err
	}
	if !c.Background.Ax.Equal(c.Counts.Ax) {
		return errors.New("cube: background axis differs from counts axis")
	}
	for i, v := range c.Counts.Data {
		if v < 0 {
			return fmt.Errorf("cube: negative counts at cell %d", i)
		}
	}
	if c.EDisp != nil {
		r, cols := c.EDisp.Dims()
		if r != c.Exposure.Ax.NBins() || cols != c.Counts.Ax.NBins() {
			return errors.New("cube: dispersion does not match axes")
		}
	} else if !c.Exposure.Ax.Equal(c.Counts.Ax) {
		return errors.New("cube: identity dispersion needs matching axes")
	}
	return nil
}

// weights returns the per-pixel spatial weight of the source: the
// fraction of the source flux falling in each pixel.  A point source
// puts all weight in the pixel holding its center; extended sources
// are sampled at pixel centers and normalized over the grid.
func (c *Cube) weights(spat model.Spatial) []float64 {
	g := c.Counts.Geom
	w := make([]float64, g.NPix*g.NPix)
	if ps, ok := spat.(*model.PointSource); ok {
		if iy, ix, ok := g.PixOf(ps.Pos); ok {
			w[iy*g.NPix+ix] = 1
		}
		return w
	}
	sum := 0.
	for iy := 0; iy < g.NPix; iy++ {
		for ix := 0; ix < g.NPix; ix++ {
			d := spat.Density(g.PixCoord(iy, ix))
			w[iy*g.NPix+ix] = d
			sum += d
		}
	}
	if sum > 0 {
		for i := range w {
			w[i] /= sum
		}
	}
	return w
}

// Npred returns the predicted counts map for a source: per true bin
// the spectral integral times per-pixel exposure and spatial weight,
// folded through the dispersion, plus the scaled background template.
func (c *Cube) Npred(spec model.Spectral, spat model.Spatial) *Map {
	g := c.Counts.Geom
	npix := g.NPix * g.NPix
	w := c.weights(spat)

	pred := NewMap(g, c.Counts.Ax)
	nt, nr := c.Exposure.Ax.NBins(), c.Counts.Ax.NBins()
	for k := 0; k < nt; k++ {
		flux := spec.Integral(c.Exposure.Ax.Lo(k), c.Exposure.Ax.Hi(k))
		if flux == 0 {
			continue
		}
		for p := 0; p < npix; p++ {
			src := flux * w[p] * c.Exposure.Data[k*npix+p]
			if src == 0 {
				continue
			}
			if c.EDisp == nil {
				if k < nr {
					pred.Data[k*npix+p] += src
				}
				continue
			}
			for i := 0; i < nr; i++ {
				pred.Data[i*npix+p] += src * c.EDisp.At(k, i)
			}
		}
	}
	norm := c.BkgNorm.Value
	for i, b := range c.Background.Data {
		pred.Data[i] += norm * b
		if pred.Data[i] < 0 {
			pred.Data[i] = 0
		}
	}
	return pred
}

// Stat returns the Cash statistic of the cube under the source model.
func (c *Cube) Stat(spec model.Spectral, spat model.Spatial) float64 {
	pred := c.Npred(spec, spat)
	sum := 0.
	for i, n := range c.Counts.Data {
		sum += stats.Cash(n, pred.Data[i])
	}
	return sum
}

// Fake returns a copy with counts replaced by a Poisson realization of
// the source model plus scaled background.
func (c *Cube) Fake(spec model.Spectral, spat model.Spatial, src rand.Source) *Cube {
	pred := c.Npred(spec, spat)
	f := *c
	f.Counts = c.Counts.Clone()
	for i, mu := range pred.Data {
		if mu <= 0 {
			f.Counts.Data[i] = 0
			continue
		}
		f.Counts.Data[i] = distuv.Poisson{Lambda: mu, Src: src}.Rand()
	}
	return &f
}

// Bin histograms an event list into a counts map on the given geometry
// and axis.  Events off the grid or outside the axis are dropped.
func Bin(l *event.List, g Geom, ax energy.Axis) *Map {
	m := NewMap(g, ax)
	for _, ev := range l.Events {
		ie := ax.FindBin(ev.Energy)
		if ie < 0 {
			continue
		}
		if iy, ix, ok := g.PixOf(ev.Coord); ok {
			m.Add(ie, iy, ix, 1)
		}
	}
	return m
}

// Eval binds a cube to a source model so the triple satisfies the
// fitter's Dataset interface.
type Eval struct {
	Cube     *Cube
	Spectral model.Spectral
	Spatial  model.Spatial
}

// Stat implements fit.Dataset.
func (e Eval) Stat() float64 { return e.Cube.Stat(e.Spectral, e.Spatial) }

// Params returns the free parameter set of a cube fit: the spectral
// parameters plus the background norm.  Spatial positions are frozen.
func (e Eval) Params() model.Params {
	return append(e.Spectral.Params(), e.Cube.BkgNorm)
}
