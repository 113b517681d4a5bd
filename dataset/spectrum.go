// Public domain.

// Package dataset holds reduced, binned ON/OFF spectrum datasets and
// the reduction that produces them from event lists and instrument
// response.
//
// A Spectrum owns its counts, exposure and dispersion arrays.  It does
// not own a model: spectral models are injected into evaluation calls
// (Npred, Stat) and shared across datasets by reference for joint
// fits.
package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/soniakeys/gammastat/energy"
	"github.com/soniakeys/gammastat/model"
	"github.com/soniakeys/gammastat/stats"
)

// Spectrum is the binned data of one observation (or a stack).
//
// Invariants: OnCounts and OffCounts are non-negative integers stored
// as float64, indexed by reconstructed-energy bin; Alpha > 0; Exposure
// is indexed by true-energy bin in m²·s; EDisp rows (true bins) sum to
// at most 1 over columns (reco bins).  Masked-out bins are excluded
// from fit statistics but keep their data for inspection.
type Spectrum struct {
	Name string

	Reco energy.Axis // reconstructed energy
	True energy.Axis // true energy

	OnCounts  []float64
	OffCounts []float64
	Alpha     float64
	Exposure  []float64 // per true bin
	EDisp     *mat.Dense
	Mask      []bool // true = bin participates in fits

	// Incomplete marks a dataset whose reduction failed recoverably
	// (for example no background regions fit the field).  Incomplete
	// datasets are kept in a batch but score zero in fits.
	Incomplete bool
	Reason     string
}

// Check validates the dataset invariants.
func (s *Spectrum) Check() error {
	nr, nt := s.Reco.NBins(), s.True.NBins()
	if len(s.OnCounts) != nr || len(s.OffCounts) != nr || len(s.Mask) != nr {
		return errors.New("dataset: counts/mask length does not match reco axis")
	}
	if len(s.Exposure) != nt {
		return errors.New("dataset: exposure length does not match true axis")
	}
	if !(s.Alpha > 0) {
		return fmt.Errorf("dataset: alpha %g not positive", s.Alpha)
	}
	for i := 0; i < nr; i++ {
		if s.OnCounts[i] < 0 || s.OffCounts[i] < 0 {
			return fmt.Errorf("dataset: negative counts in bin %d", i)
		}
	}
	for k := 0; k < nt; k++ {
		if s.Exposure[k] < 0 {
			return fmt.Errorf("dataset: negative exposure in true bin %d", k)
		}
	}
	if s.EDisp != nil {
		r, c := s.EDisp.Dims()
		if r != nt || c != nr {
			return fmt.Errorf("dataset: dispersion is %dx%d, want %dx%d", r, c, nt, nr)
		}
		for k := 0; k < r; k++ {
			sum := 0.
			for i := 0; i < c; i++ {
				sum += s.EDisp.At(k, i)
			}
			if sum > 1+1e-9 {
				return fmt.Errorf("dataset: dispersion row %d sums to %g > 1", k, sum)
			}
		}
	}
	return nil
}

// Npred computes the predicted signal counts per reconstructed bin by
// forward folding m: the model flux integrated over each true bin,
// weighted by exposure, pushed through the dispersion matrix.  The
// geometry (exposure, dispersion) is fixed; only the flux integrals
// depend on the model parameters, so the fold is cheap enough to sit
// inside an optimizer loop.
func (s *Spectrum) Npred(m model.Spectral) []float64 {
	nt, nr := s.True.NBins(), s.Reco.NBins()
	npred := make([]float64, nr)
	for k := 0; k < nt; k++ {
		w := s.Exposure[k] * m.Integral(s.True.Lo(k), s.True.Hi(k))
		if w == 0 {
			continue
		}
		if s.EDisp == nil {
			// identity mapping requires matching axes
			if k < nr {
				npred[k] += w
			}
			continue
		}
		for i := 0; i < nr; i++ {
			npred[i] += w * s.EDisp.At(k, i)
		}
	}
	for i := range npred {
		if npred[i] < 0 {
			npred[i] = 0
		}
	}
	return npred
}

// Stat returns the WStat sum of the dataset under model m, over the
// unmasked bins.  Incomplete datasets contribute zero.
func (s *Spectrum) Stat(m model.Spectral) float64 {
	return s.StatRange(m, s.Reco.EMin(), s.Reco.EMax())
}

// StatRange is Stat restricted to reconstructed bins whose centers lie
// in [elo, ehi).  Flux point estimation uses it to score a single
// energy bin.
func (s *Spectrum) StatRange(m model.Spectral, elo, ehi float64) float64 {
	if s.Incomplete {
		return 0
	}
	npred := s.Npred(m)
	sum := 0.
	for i := range npred {
		if !s.Mask[i] {
			continue
		}
		if c := s.Reco.Center(i); c < elo || c >= ehi {
			continue
		}
		sum += stats.WStat(s.OnCounts[i], s.OffCounts[i], s.Alpha, npred[i])
	}
	return sum
}

// ExcessCounts returns the background-subtracted counts per bin,
// on - alpha*off.
func (s *Spectrum) ExcessCounts() []float64 {
	ex := make([]float64, len(s.OnCounts))
	for i := range ex {
		ex[i] = s.OnCounts[i] - s.Alpha*s.OffCounts[i]
	}
	return ex
}

// Eval binds a spectral model to a dataset so the pair satisfies the
// fitter's Dataset interface.  The binding is explicit dependency
// injection; the dataset itself never stores the model.
type Eval struct {
	Spec  *Spectrum
	Model model.Spectral
}

// Stat implements fit.Dataset.
func (e Eval) Stat() float64 { return e.Spec.Stat(e.Model) }
