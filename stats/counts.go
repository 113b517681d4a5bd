// Public domain.

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// CountsStatistic summarizes the detection test for a single ON/OFF
// counts measurement.
type CountsStatistic struct {
	NOn, NOff, Alpha float64

	Excess float64 // non - alpha*noff
	TS     float64 // likelihood-ratio test statistic, >= 0
}

// NewCountsStatistic computes the detection statistic for the given
// counts.  TS is the difference of the profiled WStat at the null
// hypothesis (no signal) and at the maximum-likelihood signal.  WStat
// includes the data terms, so the statistic at the unconstrained
// maximum (predicted ON = non, background = noff) is identically zero
// and TS is just the null statistic.  For the ON/OFF case this is the
// Li & Ma likelihood-ratio test.
func NewCountsStatistic(non, noff, alpha float64) CountsStatistic {
	s := CountsStatistic{NOn: non, NOff: noff, Alpha: alpha}
	s.Excess = non - alpha*noff
	s.TS = WStat(non, noff, alpha, 0)
	if s.TS < 0 { // numeric guard; the statistic is non-negative
		s.TS = 0
	}
	return s
}

// Significance returns the signed detection significance sqrt(TS),
// negative for a deficit.
func (s CountsStatistic) Significance() float64 {
	sig := math.Sqrt(s.TS)
	if s.Excess < 0 {
		return -sig
	}
	return sig
}

// PValue returns the chance probability of TS under the null
// hypothesis, from the chi-squared distribution with one degree of
// freedom.
func (s CountsStatistic) PValue() float64 {
	return distuv.ChiSquared{K: 1}.Survival(s.TS)
}
