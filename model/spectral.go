// Public domain.

package model

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Spectral is a parametric differential flux model over true energy.
// Flux units are 1/(TeV m² s); energies are TeV.
type Spectral interface {
	// Flux returns the differential flux at energy e.
	Flux(e float64) float64
	// Integral returns the flux integrated over [lo, hi].
	Integral(lo, hi float64) float64
	// Params returns the model's parameters, fit order.
	Params() Params
}

// quadNodes is the fixed Gauss-Legendre order used for models without
// a closed-form integral.  Spectra are smooth over a single bin, so a
// low order is plenty.
const quadNodes = 16

func numIntegral(f func(float64) float64, lo, hi float64) float64 {
	return quad.Fixed(f, lo, hi, quadNodes, nil, 0)
}

// PowerLaw is dφ/dE = A (E/E0)^(-Γ).
type PowerLaw struct {
	Amplitude *Param // A, 1/(TeV m² s)
	Index     *Param // Γ
	Reference *Param // E0, TeV, frozen by convention
}

// NewPowerLaw constructs a power law with the amplitude bounded
// non-negative and the reference energy frozen.
func NewPowerLaw(amplitude, index, reference float64) *PowerLaw {
	a := NewParam("amplitude", amplitude)
	a.Min, a.Max = 0, math.Inf(1)
	g := NewParam("index", index)
	g.Min, g.Max = -5, 10
	e0 := NewParam("reference", reference)
	e0.Frozen = true
	return &PowerLaw{Amplitude: a, Index: g, Reference: e0}
}

func (m *PowerLaw) Flux(e float64) float64 {
	return m.Amplitude.Value * math.Pow(e/m.Reference.Value, -m.Index.Value)
}

// Integral is analytic for the power law.
func (m *PowerLaw) Integral(lo, hi float64) float64 {
	a, g, e0 := m.Amplitude.Value, m.Index.Value, m.Reference.Value
	if math.Abs(g-1) < 1e-9 {
		return a * e0 * math.Log(hi/lo)
	}
	p := 1 - g
	return a * e0 / p * (math.Pow(hi/e0, p) - math.Pow(lo/e0, p))
}

func (m *PowerLaw) Params() Params {
	return Params{m.Amplitude, m.Index, m.Reference}
}

// ExpCutoffPowerLaw is dφ/dE = A (E/E0)^(-Γ) exp(-λE).
type ExpCutoffPowerLaw struct {
	Amplitude *Param
	Index     *Param
	Lambda    *Param // inverse cutoff energy, 1/TeV
	Reference *Param
}

func NewExpCutoffPowerLaw(amplitude, index, lambda, reference float64) *ExpCutoffPowerLaw {
	a := NewParam("amplitude", amplitude)
	a.Min, a.Max = 0, math.Inf(1)
	g := NewParam("index", index)
	g.Min, g.Max = -5, 10
	l := NewParam("lambda", lambda)
	l.Min, l.Max = 0, math.Inf(1)
	e0 := NewParam("reference", reference)
	e0.Frozen = true
	return &ExpCutoffPowerLaw{Amplitude: a, Index: g, Lambda: l, Reference: e0}
}

func (m *ExpCutoffPowerLaw) Flux(e float64) float64 {
	return m.Amplitude.Value *
		math.Pow(e/m.Reference.Value, -m.Index.Value) *
		math.Exp(-m.Lambda.Value*e)
}

func (m *ExpCutoffPowerLaw) Integral(lo, hi float64) float64 {
	return numIntegral(m.Flux, lo, hi)
}

func (m *ExpCutoffPowerLaw) Params() Params {
	return Params{m.Amplitude, m.Index, m.Lambda, m.Reference}
}

// LogParabola is dφ/dE = A (E/E0)^(-α-β ln(E/E0)).
type LogParabola struct {
	Amplitude *Param
	Alpha     *Param
	Beta      *Param
	Reference *Param
}

func NewLogParabola(amplitude, alpha, beta, reference float64) *LogParabola {
	a := NewParam("amplitude", amplitude)
	a.Min, a.Max = 0, math.Inf(1)
	al := NewParam("alpha", alpha)
	al.Min, al.Max = -5, 10
	b := NewParam("beta", beta)
	b.Min, b.Max = -5, 5
	e0 := NewParam("reference", reference)
	e0.Frozen = true
	return &LogParabola{Amplitude: a, Alpha: al, Beta: b, Reference: e0}
}

func (m *LogParabola) Flux(e float64) float64 {
	x := e / m.Reference.Value
	return m.Amplitude.Value *
		math.Pow(x, -m.Alpha.Value-m.Beta.Value*math.Log(x))
}

func (m *LogParabola) Integral(lo, hi float64) float64 {
	return numIntegral(m.Flux, lo, hi)
}

func (m *LogParabola) Params() Params {
	return Params{m.Amplitude, m.Alpha, m.Beta, m.Reference}
}

// Scaled wraps a spectral model with a single free normalization.  The
// wrapped model's shape parameters are invisible to the fitter, which
// is what flux point estimation needs: the scale is refit per energy
// bin while the shape stays pinned at the global best fit.
type Scaled struct {
	Norm *Param
	Base Spectral
}

// NewScaled returns base scaled by a free norm parameter starting at
// 1, bounded non-negative.
func NewScaled(base Spectral) *Scaled {
	n := NewParam("norm", 1)
	n.Min, n.Max = 0, 1e6
	return &Scaled{Norm: n, Base: base}
}

func (m *Scaled) Flux(e float64) float64 { return m.Norm.Value * m.Base.Flux(e) }

func (m *Scaled) Integral(lo, hi float64) float64 {
	return m.Norm.Value * m.Base.Integral(lo, hi)
}

// Params exposes only the norm; the base shape cannot be mutated
// through a Scaled model.
func (m *Scaled) Params() Params { return Params{m.Norm} }
