// Public domain.

package dataset

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Stack combines datasets sharing the same axes into one.  Counts sum;
// exposure sums; the dispersion matrix and alpha are exposure-weighted
// means (the usual approximation for stacked ON/OFF data — exact when
// the inputs share a response, which reflected-region runs on one
// target do to good accuracy).  Incomplete datasets are skipped.  The
// stacked mask is the AND of the input masks.
func Stack(specs []*Spectrum) (*Spectrum, error) {
	var in []*Spectrum
	for _, s := range specs {
		if !s.Incomplete {
			in = append(in, s)
		}
	}
	if len(in) == 0 {
		return nil, errors.New("dataset: nothing to stack")
	}
	first := in[0]
	for _, s := range in[1:] {
		if !s.Reco.Equal(first.Reco) || !s.True.Equal(first.True) {
			return nil, errors.New("dataset: stack needs identical axes")
		}
	}

	nt, nr := first.True.NBins(), first.Reco.NBins()
	out := &Spectrum{
		Name:      "stacked",
		Reco:      first.Reco,
		True:      first.True,
		OnCounts:  make([]float64, nr),
		OffCounts: make([]float64, nr),
		Exposure:  make([]float64, nt),
		Mask:      make([]bool, nr),
	}
	for i := range out.Mask {
		out.Mask[i] = true
	}

	disp := mat.NewDense(nt, nr, nil)
	var wSum, alphaW float64
	for _, s := range in {
		w := 0.
		for k := 0; k < nt; k++ {
			w += s.Exposure[k]
			out.Exposure[k] += s.Exposure[k]
		}
		wSum += w
		alphaW += s.Alpha * w
		for i := 0; i < nr; i++ {
			out.OnCounts[i] += s.OnCounts[i]
			out.OffCounts[i] += s.OffCounts[i]
			out.Mask[i] = out.Mask[i] && s.Mask[i]
		}
		if s.EDisp != nil {
			for k := 0; k < nt; k++ {
				for i := 0; i < nr; i++ {
					disp.Set(k, i, disp.At(k, i)+w*s.EDisp.At(k, i))
				}
			}
		}
	}
	if wSum > 0 {
		disp.Scale(1/wSum, disp)
		out.Alpha = alphaW / wSum
	} else {
		out.Alpha = 1
	}
	out.EDisp = disp

	return out, out.Check()
}
