// Public domain.

package stats

import (
	"math"
	"testing"
)

// liMaSignificance is the closed-form Poisson significance of Li & Ma
// (1983), eq. 17, computed independently of the WStat machinery.
func liMaSignificance(non, noff, alpha float64) float64 {
	if non == 0 && noff == 0 {
		return 0
	}
	t1 := 0.
	if non > 0 {
		t1 = non * math.Log((1+alpha)/alpha*(non/(non+noff)))
	}
	t2 := 0.
	if noff > 0 {
		t2 = noff * math.Log((1 + alpha) * (noff / (non + noff)))
	}
	s := math.Sqrt(2 * (t1 + t2))
	if non < alpha*noff {
		return -s
	}
	return s
}

func TestReferenceSignificance(t *testing.T) {
	// documented reference scenario: non=100, noff=50, alpha=1
	s := NewCountsStatistic(100, 50, 1)
	const want = 4.1218812326
	if got := s.Significance(); math.Abs(got-want) > 1e-4 {
		t.Fatalf("significance = %.7f, want %.7f", got, want)
	}
	// and it must agree with the independent closed form
	if lm := liMaSignificance(100, 50, 1); math.Abs(s.Significance()-lm) > 1e-9 {
		t.Fatalf("significance %.9f != Li&Ma %.9f", s.Significance(), lm)
	}
	if math.Abs(s.Excess-50) > 1e-12 {
		t.Fatalf("excess = %g, want 50", s.Excess)
	}
}

func TestTSMatchesLiMa(t *testing.T) {
	for _, tc := range []struct{ non, noff, alpha float64 }{
		{10, 20, .5}, {200, 1000, .1}, {3, 0, .2}, {0, 40, .25}, {7, 7, 1},
	} {
		s := NewCountsStatistic(tc.non, tc.noff, tc.alpha)
		lm := liMaSignificance(tc.non, tc.noff, tc.alpha)
		if math.Abs(s.Significance()-lm) > 1e-6 {
			t.Errorf("non=%g noff=%g alpha=%g: significance %.9f != Li&Ma %.9f",
				tc.non, tc.noff, tc.alpha, s.Significance(), lm)
		}
	}
}

func TestTSNonNegativeMonotone(t *testing.T) {
	const noff, alpha = 80., .25
	// alpha*noff = 20; walk non away from it in both directions
	prevUp, prevDown := 0., 0.
	for d := 0.; d <= 40; d++ {
		up := NewCountsStatistic(20+d, noff, alpha)
		down := NewCountsStatistic(20-math.Min(d, 20), noff, alpha)
		if up.TS < 0 || down.TS < 0 {
			t.Fatalf("negative TS at d=%g", d)
		}
		if up.TS < prevUp {
			t.Fatalf("TS not monotone above balance at d=%g: %g < %g", d, up.TS, prevUp)
		}
		if d <= 20 && down.TS < prevDown {
			t.Fatalf("TS not monotone below balance at d=%g: %g < %g", d, down.TS, prevDown)
		}
		prevUp = up.TS
		if d <= 20 {
			prevDown = down.TS
		}
	}
	// balanced counts: no signal, TS ~ 0
	if s := NewCountsStatistic(20, noff, alpha); s.TS > 1e-9 {
		t.Fatalf("balanced TS = %g, want 0", s.TS)
	}
}

func TestWStatPerfectFitIsZero(t *testing.T) {
	for _, tc := range []struct{ non, noff, alpha float64 }{
		{100, 50, 1}, {30, 300, .1}, {5, 0, .5}, {0, 10, .2},
	} {
		mu := tc.non - tc.alpha*tc.noff
		if mu < 0 {
			mu = 0
		}
		got := WStat(tc.non, tc.noff, tc.alpha, mu)
		// only exactly zero when the ML signal is non-negative
		if tc.non >= tc.alpha*tc.noff && math.Abs(got) > 1e-6 {
			t.Errorf("non=%g noff=%g alpha=%g: WStat at ML = %g, want 0",
				tc.non, tc.noff, tc.alpha, got)
		}
	}
}

func TestWStatBackgroundProfiles(t *testing.T) {
	// the analytic profile must beat any scanned background value
	const non, noff, alpha, mu = 37., 112., .2, 9.
	mb := WStatBackground(non, noff, alpha, mu)
	best := wstatAt(non, noff, alpha, mu, mb)
	for b := mb / 4; b < mb*4; b += mb / 50 {
		if got := wstatAt(non, noff, alpha, mu, b); got < best-1e-9 {
			t.Fatalf("scanned background %g gives %g < profiled %g", b, got, best)
		}
	}
}

// wstatAt evaluates the un-profiled statistic at an explicit
// background expectation.
func wstatAt(non, noff, alpha, mu, mb float64) float64 {
	muOn := mu + alpha*mb
	s := 2 * (mu + (1+alpha)*mb)
	if non > 0 {
		s += 2 * non * (math.Log(non) - math.Log(ClampMu(muOn)) - 1)
	}
	if noff > 0 {
		s += 2 * noff * (math.Log(noff) - math.Log(ClampMu(mb)) - 1)
	}
	return s
}

func TestClampPolicy(t *testing.T) {
	// zero, negative and NaN predictions are clamped, never NaN/Inf out
	for _, mu := range []float64{0, -5, math.NaN()} {
		got := WStat(12, 30, .3, mu)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("WStat(mu=%v) = %v", mu, got)
		}
	}
	if ClampMu(0) != MuEps || ClampMu(-1) != MuEps || ClampMu(2) != 2 {
		t.Fatal("ClampMu policy broken")
	}
	// cash likewise guards the logarithm
	if got := Cash(5, 0); math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("Cash(5, 0) = %v", got)
	}
}

func TestCash(t *testing.T) {
	// minimum of cash in mu is at mu = n
	n := 13.
	c0 := Cash(n, n)
	for _, mu := range []float64{8, 11, 15, 20} {
		if Cash(n, mu) <= c0 {
			t.Errorf("Cash(%g, %g) not above minimum", n, mu)
		}
	}
}

func TestPValue(t *testing.T) {
	s := NewCountsStatistic(100, 50, 1)
	p := s.PValue()
	if p <= 0 || p >= 1e-4 {
		t.Fatalf("p-value = %g for 4.1 sigma", p)
	}
	null := NewCountsStatistic(20, 80, .25)
	if p := null.PValue(); p < .9 {
		t.Fatalf("null p-value = %g, want ~1", p)
	}
}
