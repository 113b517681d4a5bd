// Public domain.

package irf

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"

	"github.com/soniakeys/gammastat/energy"
)

// EDisp is an energy-dispersion model: a Gaussian migration kernel
// whose fractional resolution (and optional bias) is tabulated over
// true energy.  Matrix discretizes it onto a pair of axes.
type EDisp struct {
	Energy []float64 // node energies, TeV, strictly increasing
	Sigma  []float64 // fractional energy resolution at each node
	Bias   []float64 // fractional reconstruction bias, may be nil

	plSigma, plBias interp.PiecewiseLinear
	fitOK           bool
}

// NewEDisp validates the node tables.  bias may be nil for an
// unbiased response.
func NewEDisp(energy, sigma, bias []float64) (*EDisp, error) {
	d := &EDisp{Energy: energy, Sigma: sigma, Bias: bias}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *EDisp) init() error {
	if len(d.Energy) < 2 || len(d.Energy) != len(d.Sigma) {
		return errors.New("irf: dispersion needs matching node tables")
	}
	if d.Bias != nil && len(d.Bias) != len(d.Energy) {
		return errors.New("irf: dispersion bias table length mismatch")
	}
	logE := make([]float64, len(d.Energy))
	for i, e := range d.Energy {
		if e <= 0 {
			return fmt.Errorf("irf: node energy %d not positive", i)
		}
		if d.Sigma[i] <= 0 {
			return fmt.Errorf("irf: node sigma %d not positive", i)
		}
		logE[i] = math.Log(e)
	}
	if err := d.plSigma.Fit(logE, d.Sigma); err != nil {
		return fmt.Errorf("irf: dispersion: %w", err)
	}
	if d.Bias != nil {
		if err := d.plBias.Fit(logE, d.Bias); err != nil {
			return fmt.Errorf("irf: dispersion bias: %w", err)
		}
	}
	d.fitOK = true
	return nil
}

func (d *EDisp) at(pl *interp.PiecewiseLinear, table []float64, e float64) float64 {
	switch {
	case e <= d.Energy[0]:
		return table[0]
	case e >= d.Energy[len(d.Energy)-1]:
		return table[len(table)-1]
	}
	return pl.Predict(math.Log(e))
}

// SigmaAt returns the fractional resolution at true energy e.
func (d *EDisp) SigmaAt(e float64) float64 {
	if !d.fitOK {
		if err := d.init(); err != nil {
			return 0
		}
	}
	return d.at(&d.plSigma, d.Sigma, e)
}

// BiasAt returns the fractional bias at true energy e.
func (d *EDisp) BiasAt(e float64) float64 {
	if d.Bias == nil {
		return 0
	}
	if !d.fitOK {
		if err := d.init(); err != nil {
			return 0
		}
	}
	return d.at(&d.plBias, d.Bias, e)
}

// Matrix returns the migration matrix on the given axes.  Element
// (k, i) is the probability that a photon of true energy in bin k of
// trueAx is reconstructed into bin i of recoAx.  Rows sum to at most 1;
// the deficit is probability of reconstruction outside the axis, which
// is how events are lost at the edges of the reconstructed range.
func (d *EDisp) Matrix(trueAx, recoAx energy.Axis) *mat.Dense {
	nt, nr := trueAx.NBins(), recoAx.NBins()
	m := mat.NewDense(nt, nr, nil)
	for k := 0; k < nt; k++ {
		et := trueAx.Center(k)
		mu := et * (1 + d.BiasAt(et))
		sig := d.SigmaAt(et) * et
		for i := 0; i < nr; i++ {
			p := gaussBinProb(mu, sig, recoAx.Lo(i), recoAx.Hi(i))
			if p > 0 {
				m.Set(k, i, p)
			}
		}
	}
	return m
}

// gaussBinProb is the probability mass of N(mu, sig) in [lo, hi).
func gaussBinProb(mu, sig, lo, hi float64) float64 {
	if sig <= 0 {
		if mu >= lo && mu < hi {
			return 1
		}
		return 0
	}
	inv := 1 / (sig * math.Sqrt2)
	return .5 * (math.Erf((hi-mu)*inv) - math.Erf((lo-mu)*inv))
}
