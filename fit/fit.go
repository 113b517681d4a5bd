// Public domain.

// Package fit minimizes Poisson fit statistics over the free parameters
// of shared spectral models.
//
// The fitter owns the parameter values for the duration of a fit: it
// writes candidate values into the model parameters, asks each dataset
// for its statistic, and sums.  Joint fits fall out of the sharing
// scheme: several datasets evaluating one model by reference are fitted
// together by listing them all.
package fit

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/soniakeys/gammastat/model"
)

// Dataset is anything that can score the current model parameter
// values.  dataset.Eval and cube.Eval satisfy it.
type Dataset interface {
	Stat() float64
}

// Config tunes the minimizer.  The zero value selects the defaults.
type Config struct {
	// MaxIter caps major iterations of the simplex.  Default 2000.
	MaxIter int

	// Tol is the absolute function convergence tolerance on the
	// statistic.  Default 1e-9.
	Tol float64
}

func (c Config) withDefaults() Config {
	if c.MaxIter == 0 {
		c.MaxIter = 2000
	}
	if c.Tol == 0 {
		c.Tol = 1e-9
	}
	return c
}

// penaltyWeight steers the simplex back when it wanders out of bounds.
// The scaled violation enters quadratically so the objective stays
// continuous at the bound.
const penaltyWeight = 1e6

// Fitter minimizes the summed statistic of a set of datasets.
type Fitter struct {
	Config Config
}

// Fit minimizes the summed dataset statistic over the free parameters
// in ps.  On return the parameters hold the best-fit values, also
// reported in the Result along with uncertainties from the curvature
// of the statistic.
//
// Frozen parameters are untouched.  Bounded parameters are kept inside
// their bounds; a parameter finishing on a bound is flagged in the
// Result and excluded from error estimation.
func (f *Fitter) Fit(ps model.Params, ds ...Dataset) (*Result, error) {
	cfg := f.Config.withDefaults()
	free := ps.Free()
	if len(free) == 0 {
		return nil, errors.New("fit: no free parameters")
	}
	if len(ds) == 0 {
		return nil, errors.New("fit: no datasets")
	}

	// work in scaled space so amplitude (~1e-7) and index (~2) move
	// on comparable simplex steps
	scale := make([]float64, len(free))
	x0 := make([]float64, len(free))
	for i, p := range free {
		scale[i] = math.Abs(p.Value)
		if scale[i] == 0 {
			scale[i] = 1
		}
		x0[i] = p.Value / scale[i]
	}

	nfev := 0
	obj := func(x []float64) float64 {
		nfev++
		pen := 0.
		for i, p := range free {
			v := x[i] * scale[i]
			if p.Bounded() {
				if v < p.Min {
					d := (p.Min - v) / scale[i]
					pen += d * d
					v = p.Min
				} else if v > p.Max {
					d := (v - p.Max) / scale[i]
					pen += d * d
					v = p.Max
				}
			}
			p.Value = v
		}
		sum := 0.
		for _, d := range ds {
			sum += d.Stat()
		}
		return sum + penaltyWeight*pen
	}

	problem := optimize.Problem{Func: obj}
	settings := &optimize.Settings{
		MajorIterations: cfg.MaxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   cfg.Tol,
			Iterations: 100,
		},
	}
	res, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})

	r := &Result{
		Free:   free,
		Names:  make([]string, len(free)),
		Values: make([]float64, len(free)),
		Errors: make([]float64, len(free)),
		NFev:   nfev,
	}
	if res != nil {
		r.Status = res.Status
		// install the best point seen, whatever the status
		obj(res.X)
		r.TotalStat = sumStat(ds)
		r.Converged = err == nil && converged(res.Status)
	}
	if err != nil {
		return r, err
	}

	for i, p := range free {
		r.Names[i] = p.Name
		r.Values[i] = p.Value
		if p.AtBound() {
			r.AtBound = append(r.AtBound, p.Name)
		}
	}
	r.estimateErrors(ds, scale)
	return r, nil
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.IterationLimit,
		optimize.FunctionEvaluationLimit,
		optimize.RuntimeLimit,
		optimize.NotTerminated,
		optimize.Failure:
		return false
	}
	return true
}

func sumStat(ds []Dataset) float64 {
	sum := 0.
	for _, d := range ds {
		sum += d.Stat()
	}
	return sum
}
