// Public domain.

package dataset

import (
	"errors"
	"fmt"

	"github.com/soniakeys/gammastat/energy"
	"github.com/soniakeys/gammastat/event"
	"github.com/soniakeys/gammastat/irf"
	"github.com/soniakeys/gammastat/region"
)

// ReduceConfig collects the declared analysis geometry: regions, axes
// and the safe-range policy.  It is plain configuration; all entries
// must be set before reduction and are fixed afterwards.
type ReduceConfig struct {
	On     region.Circle
	Finder region.ReflectedFinder

	Reco energy.Axis
	True energy.Axis

	// SafeAreaFrac masks reconstructed bins below the energy where
	// the effective area first reaches this fraction of its maximum.
	// Zero disables the cut.
	SafeAreaFrac float64

	// FitEMin/FitEMax further restrict the fit range.  Zero values
	// leave the corresponding side open.
	FitEMin, FitEMax float64
}

// IRFs bundles the response of one observation.
type IRFs struct {
	Aeff  *irf.EffArea
	EDisp *irf.EDisp
}

// Reduce bins an event list into an ON/OFF spectrum dataset.
//
// ON counts are the histogram of ON-region event energies on the
// reconstructed axis; OFF counts are summed over all reflected OFF
// regions, with alpha = 1/len(off).  Exposure is effective area times
// live time on the true axis.  If no OFF regions fit the field the
// dataset comes back marked Incomplete rather than as an error: one
// observation near a field edge must not abort a batch.
func Reduce(l *event.List, irfs IRFs, cfg ReduceConfig) (*Spectrum, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("dataset: event list %s fails validation", l.Obs)
	}
	if irfs.Aeff == nil || irfs.EDisp == nil {
		return nil, errors.New("dataset: reduction needs both IRF components")
	}

	s := &Spectrum{
		Name: l.Obs,
		Reco: cfg.Reco,
		True: cfg.True,
	}
	s.OnCounts = event.CountsIn(l.InRegion(cfg.On), cfg.Reco)

	// exposure over the true axis
	live := l.LiveTime()
	s.Exposure = make([]float64, cfg.True.NBins())
	for k := range s.Exposure {
		s.Exposure[k] = irfs.Aeff.At(cfg.True.Center(k)) * live
	}
	s.EDisp = irfs.EDisp.Matrix(cfg.True, cfg.Reco)
	s.Mask = safeMask(cfg, irfs.Aeff)

	off, err := cfg.Finder.Find(l.Pointing, cfg.On)
	if err != nil {
		if errors.Is(err, region.ErrNoOffRegions) {
			s.OffCounts = make([]float64, cfg.Reco.NBins())
			s.Alpha = 1
			s.Incomplete = true
			s.Reason = err.Error()
			return s, nil
		}
		return nil, err
	}
	s.OffCounts = make([]float64, cfg.Reco.NBins())
	for _, o := range off {
		for i, n := range event.CountsIn(l.InRegion(o), cfg.Reco) {
			s.OffCounts[i] += n
		}
	}
	s.Alpha = region.Alpha(off)

	return s, s.Check()
}

// safeMask applies the safe-range policy: the effective-area threshold
// plus any configured fit range.  Masked bins stay in the data arrays.
func safeMask(cfg ReduceConfig, aeff *irf.EffArea) []bool {
	ethr := 0.
	if cfg.SafeAreaFrac > 0 {
		ethr = aeff.SafeThreshold(cfg.SafeAreaFrac)
	}
	mask := make([]bool, cfg.Reco.NBins())
	for i := range mask {
		c := cfg.Reco.Center(i)
		ok := c >= ethr
		if cfg.FitEMin > 0 && c < cfg.FitEMin {
			ok = false
		}
		if cfg.FitEMax > 0 && c >= cfg.FitEMax {
			ok = false
		}
		mask[i] = ok
	}
	return mask
}
