// Public domain.

package fit

import (
	"math"
	"strings"
	"testing"

	"github.com/soniakeys/gammastat/dataset"
	"github.com/soniakeys/gammastat/energy"
	"github.com/soniakeys/gammastat/model"
)

// asimov builds a zero-noise dataset: ON counts set exactly to the
// model prediction plus scaled background expectation.  A fit of the
// generating model must reach a statistic of zero at the true
// parameters.
func asimov(t *testing.T, truth model.Spectral, exposure, bkg, alpha float64) *dataset.Spectrum {
	t.Helper()
	ax, err := energy.LogAxis(.1, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	nb := ax.NBins()
	s := &dataset.Spectrum{
		Name:      "asimov",
		Reco:      ax,
		True:      ax,
		Alpha:     alpha,
		Exposure:  make([]float64, nb),
		OffCounts: make([]float64, nb),
		Mask:      make([]bool, nb),
	}
	for k := range s.Exposure {
		s.Exposure[k] = exposure
		s.OffCounts[k] = bkg
		s.Mask[k] = true
	}
	npred := s.Npred(truth)
	s.OnCounts = make([]float64, nb)
	for i := range s.OnCounts {
		s.OnCounts[i] = npred[i] + alpha*bkg
	}
	return s
}

func TestRecoverPowerLaw(t *testing.T) {
	truth := model.NewPowerLaw(4e-7, 2.3, 1)
	s := asimov(t, truth, 1e10, 100, .1)

	pl := model.NewPowerLaw(1e-7, 1.8, 1)
	var f Fitter
	r, err := f.Fit(pl.Params(), dataset.Eval{Spec: s, Model: pl})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Converged {
		t.Fatalf("did not converge: %v", r.Status)
	}
	if r.TotalStat > 1e-5 {
		t.Errorf("stat at minimum = %g, want ~0", r.TotalStat)
	}
	if rel := math.Abs(pl.Amplitude.Value-4e-7) / 4e-7; rel > 1e-3 {
		t.Errorf("amplitude %g, want 4e-7 (rel %g)", pl.Amplitude.Value, rel)
	}
	if d := math.Abs(pl.Index.Value - 2.3); d > 1e-3 {
		t.Errorf("index %g, want 2.3", pl.Index.Value)
	}
	if pl.Reference.Value != 1 {
		t.Error("frozen reference moved")
	}

	if r.Cov == nil || r.SingularCov {
		t.Fatal("no covariance from a well-conditioned minimum")
	}
	for i, e := range r.Errors {
		if !(e > 0) || math.IsInf(e, 0) {
			t.Errorf("error on %s = %g", r.Names[i], e)
		}
	}
	if r.Errors[0] >= pl.Amplitude.Value {
		t.Errorf("amplitude error %g not small against value %g",
			r.Errors[0], pl.Amplitude.Value)
	}
}

func TestJointFit(t *testing.T) {
	truth := model.NewPowerLaw(4e-7, 2.3, 1)
	s1 := asimov(t, truth, 1e10, 100, .1)
	s2 := asimov(t, truth, 3e10, 40, .2)

	// one model instance shared by reference across both datasets
	pl := model.NewPowerLaw(2e-7, 2.0, 1)
	var f Fitter
	r, err := f.Fit(pl.Params(),
		dataset.Eval{Spec: s1, Model: pl},
		dataset.Eval{Spec: s2, Model: pl})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Converged {
		t.Fatalf("did not converge: %v", r.Status)
	}
	if rel := math.Abs(pl.Amplitude.Value-4e-7) / 4e-7; rel > 1e-3 {
		t.Errorf("joint amplitude %g (rel %g)", pl.Amplitude.Value, rel)
	}
	if d := math.Abs(pl.Index.Value - 2.3); d > 1e-3 {
		t.Errorf("joint index %g", pl.Index.Value)
	}

	// the joint statistic is the sum over datasets
	want := s1.Stat(pl) + s2.Stat(pl)
	if math.Abs(r.TotalStat-want) > 1e-9 {
		t.Errorf("TotalStat %g, want sum %g", r.TotalStat, want)
	}
}

func TestFitAtBound(t *testing.T) {
	truth := model.NewPowerLaw(4e-7, 2.3, 1)
	s := asimov(t, truth, 1e10, 100, .1)

	pl := model.NewPowerLaw(1e-7, 2.3, 1)
	pl.Index.Frozen = true
	pl.Amplitude.Max = 2e-7 // below the true amplitude
	var f Fitter
	r, err := f.Fit(pl.Params(), dataset.Eval{Spec: s, Model: pl})
	if err != nil {
		t.Fatal(err)
	}
	if pl.Amplitude.Value > 2e-7*(1+1e-9) {
		t.Fatalf("amplitude %g escaped its bound", pl.Amplitude.Value)
	}
	if pl.Amplitude.Value < 2e-7*.999 {
		t.Fatalf("amplitude %g did not reach its bound", pl.Amplitude.Value)
	}
	if !r.atBound("amplitude") {
		t.Errorf("amplitude not flagged at bound: %v", r.AtBound)
	}
}

func TestFitIterationLimit(t *testing.T) {
	truth := model.NewPowerLaw(4e-7, 2.3, 1)
	s := asimov(t, truth, 1e10, 100, .1)

	pl := model.NewPowerLaw(1e-8, 1.5, 1)
	f := Fitter{Config: Config{MaxIter: 1}}
	r, _ := f.Fit(pl.Params(), dataset.Eval{Spec: s, Model: pl})
	if r == nil {
		t.Fatal("no result returned")
	}
	if r.Converged {
		t.Error("one iteration reported as converged")
	}
}

func TestFitNoFreeParams(t *testing.T) {
	pl := model.NewPowerLaw(1e-7, 2, 1)
	pl.Params().FreezeAll()
	var f Fitter
	if _, err := f.Fit(pl.Params()); err == nil {
		t.Fatal("fit with no free parameters accepted")
	}
}

func TestResultString(t *testing.T) {
	truth := model.NewPowerLaw(4e-7, 2.3, 1)
	s := asimov(t, truth, 1e10, 100, .1)
	pl := model.NewPowerLaw(1e-7, 1.8, 1)
	var f Fitter
	r, err := f.Fit(pl.Params(), dataset.Eval{Spec: s, Model: pl})
	if err != nil {
		t.Fatal(err)
	}
	out := r.String()
	if out == "" {
		t.Fatal("empty result table")
	}
	for _, want := range []string{"amplitude", "index", "stat"} {
		if !strings.Contains(out, want) {
			t.Errorf("result table missing %q:\n%s", want, out)
		}
	}
}
