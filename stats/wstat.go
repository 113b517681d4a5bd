// Public domain.

// Package stats implements the Poisson fit statistics of ON/OFF
// analysis as pure functions of counts, the background normalization
// alpha and predicted signal counts.  Keeping the per-bin arithmetic
// free of state lets likelihood sums be evaluated independently per
// bin and per dataset, and in parallel.
//
// Conventions: all statistics are -2 ln L.  WStat profiles the per-bin
// background expectation analytically and includes the data-dependent
// terms, so a model that reproduces the data exactly scores 0.  Cash
// omits the data terms (they cancel in any statistic difference).
package stats

import "math"

// MuEps is the clamping floor applied to predicted counts before
// logarithms.  Predicted counts that are zero or negative (a
// pathological model, or the null hypothesis mu=0 with observed
// counts) would make ln(mu) undefined; they are clamped to MuEps
// instead of rejected so that null-hypothesis statistics remain
// evaluable.  The value is far below any measurable count level, so
// the clamp never distorts a physical fit.
const MuEps = 1e-25

// ClampMu applies the documented clamping policy to a predicted count.
func ClampMu(mu float64) float64 {
	if !(mu > MuEps) { // catches NaN as well
		return MuEps
	}
	return mu
}

// WStatBackground returns the background expectation in the OFF region
// that maximizes the ON/OFF Poisson likelihood for fixed predicted
// signal mu.  It is the positive root of the quadratic obtained by
// setting the likelihood derivative to zero, and covers the non=0 and
// noff=0 special cases in the limit.
func WStatBackground(non, noff, alpha, mu float64) float64 {
	c := alpha*(non+noff) - (1+alpha)*mu
	d := math.Sqrt(c*c + 4*alpha*(1+alpha)*noff*mu)
	mb := (c + d) / (2 * alpha * (1 + alpha))
	if !(mb > 0) {
		return 0
	}
	return mb
}

// WStat returns the profiled ON/OFF Poisson statistic for one bin:
// non observed ON counts, noff observed OFF counts, exposure ratio
// alpha > 0, and predicted signal counts mu in the ON region.  The
// background nuisance parameter is profiled out analytically
// (WStatBackground), not part of any fit parameter vector.
func WStat(non, noff, alpha, mu float64) float64 {
	mu = ClampMu(mu)
	mb := WStatBackground(non, noff, alpha, mu)
	muOn := mu + alpha*mb
	stat := 2 * (mu + (1+alpha)*mb)
	if non > 0 {
		stat += 2 * non * (math.Log(non) - math.Log(ClampMu(muOn)) - 1)
	}
	if noff > 0 {
		stat += 2 * noff * (math.Log(noff) - math.Log(ClampMu(mb)) - 1)
	}
	return stat
}

// Cash returns the Poisson statistic 2(mu - n ln mu) for a bin with
// known (not profiled) background already folded into mu.
func Cash(n, mu float64) float64 {
	mu = ClampMu(mu)
	s := 2 * mu
	if n > 0 {
		s -= 2 * n * math.Log(mu)
	}
	return s
}
