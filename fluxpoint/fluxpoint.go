// Public domain.

// Package fluxpoint estimates binned flux points from fitted spectra.
//
// Each point refits a single normalization of the global best-fit
// spectral shape against the data restricted to one energy bin.  The
// shape itself is pinned: bins see it only through a Scaled wrapper
// whose norm is the one free parameter.  Bins are independent, so they
// are estimated concurrently.
package fluxpoint

import (
	"errors"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/soniakeys/gammastat/dataset"
	"github.com/soniakeys/gammastat/energy"
	"github.com/soniakeys/gammastat/fit"
	"github.com/soniakeys/gammastat/model"
)

// Point is one estimated flux point.
type Point struct {
	EMin, EMax float64 // bin edges, TeV
	ERef       float64 // reference energy, geometric bin center

	Norm    float64 // best-fit scale of the reference shape
	NormErr float64 // symmetric error, NaN if unavailable

	DnDe    float64 // differential flux at ERef, 1/(TeV m² s)
	DnDeErr float64

	TS float64 // detection test statistic of the bin

	// IsUL marks bins below the TS threshold; UL is then the norm
	// upper limit (NaN when no limit could be bracketed).
	IsUL   bool
	UL     float64
	ULDnDe float64
}

// E2DnDe returns the differential flux scaled by ERef², the usual
// spectral-energy-distribution ordinate, in TeV/(m²·s).
func (p Point) E2DnDe() float64 { return p.ERef * p.ERef * p.DnDe }

// Estimator computes flux points on an energy axis.  The zero value of
// the tuning fields selects the defaults.
type Estimator struct {
	Axis energy.Axis

	// TSThreshold switches a bin to an upper limit when its TS falls
	// below it.  Default 4 (about 2 sigma).
	TSThreshold float64

	// ULDelta is the statistic increase defining the upper limit.
	// Default 2.71, a one-sided 95% confidence bound.
	ULDelta float64

	// Workers bounds bin-level concurrency.  Default 4.
	Workers int

	// Fit tunes the per-bin minimizer.
	Fit fit.Config
}

// rangeEval scores a model against one dataset restricted to an energy
// range, satisfying fit.Dataset.
type rangeEval struct {
	s        *dataset.Spectrum
	m        model.Spectral
	elo, ehi float64
}

func (e rangeEval) Stat() float64 { return e.s.StatRange(e.m, e.elo, e.ehi) }

// Estimate computes one flux point per axis bin.  shape is the global
// best-fit spectral model; its parameters are read, never written.
func (est Estimator) Estimate(shape model.Spectral, specs []*dataset.Spectrum) ([]Point, error) {
	if est.Axis.NBins() < 1 {
		return nil, errors.New("fluxpoint: no energy axis")
	}
	if len(specs) == 0 {
		return nil, errors.New("fluxpoint: no datasets")
	}
	tsThresh := est.TSThreshold
	if tsThresh == 0 {
		tsThresh = 4
	}
	ulDelta := est.ULDelta
	if ulDelta == 0 {
		ulDelta = 2.71
	}
	workers := est.Workers
	if workers == 0 {
		workers = 4
	}

	pts := make([]Point, est.Axis.NBins())
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range pts {
		i := i
		g.Go(func() error {
			pts[i] = est.bin(shape, specs, i, tsThresh, ulDelta)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pts, nil
}

func (est Estimator) bin(shape model.Spectral, specs []*dataset.Spectrum, i int, tsThresh, ulDelta float64) Point {
	elo, ehi := est.Axis.Lo(i), est.Axis.Hi(i)
	pt := Point{EMin: elo, EMax: ehi, ERef: est.Axis.Center(i)}

	scaled := model.NewScaled(shape)
	evals := make([]fit.Dataset, len(specs))
	for j, s := range specs {
		evals[j] = rangeEval{s: s, m: scaled, elo: elo, ehi: ehi}
	}
	stat := func(norm float64) float64 {
		scaled.Norm.Value = norm
		sum := 0.
		for _, e := range evals {
			sum += e.Stat()
		}
		return sum
	}

	f := fit.Fitter{Config: est.Fit}
	r, err := f.Fit(scaled.Params(), evals...)
	if err != nil {
		pt.Norm, pt.TS = math.NaN(), math.NaN()
		return pt
	}
	statMin := r.TotalStat
	pt.Norm = scaled.Norm.Value
	pt.NormErr = r.Errors[0]
	pt.TS = stat(0) - statMin

	refFlux := shape.Flux(pt.ERef)
	pt.DnDe = pt.Norm * refFlux
	pt.DnDeErr = pt.NormErr * refFlux

	if pt.TS < tsThresh {
		pt.IsUL = true
		pt.UL = upperLimit(stat, pt.Norm, statMin+ulDelta)
		pt.ULDnDe = pt.UL * refFlux
	}
	// leave the scaled model at the best fit for callers inspecting it
	scaled.Norm.Value = pt.Norm
	return pt
}

// upperLimit finds the norm above hat where the statistic crosses
// target: bracket by doubling, then bisect.  NaN if the statistic never
// reaches the target (no data constrains the bin).
func upperLimit(stat func(float64) float64, hat, target float64) float64 {
	lo := hat
	if lo < 0 {
		lo = 0
	}
	step := math.Max(hat, 1)
	hi := lo + step
	ok := false
	for i := 0; i < 60; i++ {
		if stat(hi) >= target {
			ok = true
			break
		}
		lo = hi
		step *= 2
		hi += step
	}
	if !ok {
		return math.NaN()
	}
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		if stat(mid) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
