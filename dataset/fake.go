// Public domain.

package dataset

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/soniakeys/gammastat/model"
)

// Fake returns a copy of the dataset with counts replaced by a Poisson
// realization of model m over the dataset's response.  The current
// OffCounts are interpreted as the background expectation in the OFF
// region: ON counts draw from Npred + alpha*bkg, OFF counts from bkg.
// Seed the source explicitly for repeatable simulations.
func (s *Spectrum) Fake(m model.Spectral, src rand.Source) *Spectrum {
	f := s.clone()
	npred := s.Npred(m)
	for i := range f.OnCounts {
		bkg := s.OffCounts[i]
		f.OnCounts[i] = poisson(npred[i]+s.Alpha*bkg, src)
		f.OffCounts[i] = poisson(bkg, src)
	}
	return f
}

func poisson(mu float64, src rand.Source) float64 {
	if mu <= 0 {
		return 0
	}
	return distuv.Poisson{Lambda: mu, Src: src}.Rand()
}

func (s *Spectrum) clone() *Spectrum {
	c := *s
	c.OnCounts = append([]float64{}, s.OnCounts...)
	c.OffCounts = append([]float64{}, s.OffCounts...)
	c.Exposure = append([]float64{}, s.Exposure...)
	c.Mask = append([]bool{}, s.Mask...)
	// axes are immutable and EDisp is treated read-only; share them
	return &c
}
