// Public domain.

package fit

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/soniakeys/gammastat/model"
)

// Result reports a completed minimization.  Converged is false when the
// minimizer stopped on an iteration or evaluation limit; callers must
// check it, the parameter values are still the best point seen.
type Result struct {
	Free   model.Params
	Names  []string
	Values []float64
	Errors []float64 // NaN where no error could be estimated

	// Cov is the parameter covariance matrix from the curvature of
	// the statistic at the minimum, nil if it could not be computed.
	Cov         *mat.SymDense
	SingularCov bool

	TotalStat float64
	Converged bool
	Status    optimize.Status
	NFev      int

	// AtBound lists parameters that finished on a bound.  Their
	// symmetric errors are unreliable.
	AtBound []string
}

// estimateErrors fills Errors and Cov from the numeric Hessian of the
// statistic at the current parameter values.  With stat = -2 ln L the
// covariance is the inverse of half the Hessian.
func (r *Result) estimateErrors(ds []Dataset, scale []float64) {
	n := len(r.Free)
	for i := range r.Errors {
		r.Errors[i] = math.NaN()
	}

	best := make([]float64, n)
	for i, p := range r.Free {
		best[i] = p.Value
	}
	restore := func() {
		for i, p := range r.Free {
			p.Value = best[i]
		}
	}
	defer restore()

	eval := func(x []float64) float64 {
		for i, p := range r.Free {
			p.Value = x[i]
		}
		return sumStat(ds)
	}

	h := make([]float64, n)
	for i := range h {
		h[i] = 1e-4 * math.Max(math.Abs(best[i]), scale[i])
	}

	f0 := eval(best)
	hess := mat.NewSymDense(n, nil)
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		copy(x, best)
		x[i] = best[i] + h[i]
		fp := eval(x)
		x[i] = best[i] - h[i]
		fm := eval(x)
		hess.SetSym(i, i, (fp+fm-2*f0)/(h[i]*h[i]))
		for j := i + 1; j < n; j++ {
			copy(x, best)
			x[i], x[j] = best[i]+h[i], best[j]+h[j]
			fpp := eval(x)
			x[j] = best[j] - h[j]
			fpm := eval(x)
			x[i] = best[i] - h[i]
			fmm := eval(x)
			x[j] = best[j] + h[j]
			fmp := eval(x)
			hess.SetSym(i, j, (fpp-fpm-fmp+fmm)/(4*h[i]*h[j]))
		}
	}

	// cov = (H/2)^-1
	half := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			half.SetSym(i, j, hess.At(i, j)/2)
		}
	}
	var chol mat.Cholesky
	if !chol.Factorize(half) {
		r.SingularCov = true
		return
	}
	cov := mat.NewSymDense(n, nil)
	if err := chol.InverseTo(cov); err != nil {
		r.SingularCov = true
		return
	}
	r.Cov = cov
	for i := 0; i < n; i++ {
		if v := cov.At(i, i); v > 0 {
			r.Errors[i] = math.Sqrt(v)
		}
	}
}

// String formats the result as a small fixed-width table.
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "stat %.4f  converged %t  nfev %d\n",
		r.TotalStat, r.Converged, r.NFev)
	for i, name := range r.Names {
		fmt.Fprintf(&b, "  %-12s %12.6g", name, r.Values[i])
		if !math.IsNaN(r.Errors[i]) {
			fmt.Fprintf(&b, " +/- %-12.4g", r.Errors[i])
		}
		if r.atBound(name) {
			b.WriteString(" (at bound)")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Result) atBound(name string) bool {
	for _, n := range r.AtBound {
		if n == name {
			return true
		}
	}
	return false
}
