// Public domain.

package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soniakeys/gammastat/sky"
	"github.com/soniakeys/unit"
)

func TestPowerLawIntegral(t *testing.T) {
	pl := NewPowerLaw(3.8e-7, 2.5, 1)

	t.Run("analytic vs numeric", func(t *testing.T) {
		for _, r := range [][2]float64{{.1, .3}, {.5, 2}, {5, 30}} {
			want := numIntegral(pl.Flux, r[0], r[1])
			assert.InEpsilon(t, want, pl.Integral(r[0], r[1]), 1e-9,
				"range %v", r)
		}
	})

	t.Run("index one special case", func(t *testing.T) {
		pl1 := NewPowerLaw(1e-7, 1, 1)
		want := numIntegral(pl1.Flux, .2, 5)
		assert.InEpsilon(t, want, pl1.Integral(.2, 5), 1e-9)
	})
}

func TestLinearityInAmplitude(t *testing.T) {
	for _, m := range []Spectral{
		NewPowerLaw(1e-7, 2.3, 1),
		NewExpCutoffPowerLaw(1e-7, 2, .1, 1),
		NewLogParabola(1e-7, 2, .2, 1),
	} {
		base := m.Integral(.3, 3)
		fb := m.Flux(.7)
		m.Params().ByName("amplitude").Value *= 3
		assert.InEpsilon(t, 3*base, m.Integral(.3, 3), 1e-12)
		assert.InEpsilon(t, 3*fb, m.Flux(.7), 1e-12)
	}
}

func TestScaled(t *testing.T) {
	pl := NewPowerLaw(1e-7, 2.3, 1)
	s := NewScaled(pl)

	assert.InEpsilon(t, pl.Flux(.5), s.Flux(.5), 1e-12, "norm=1 is identity")

	s.Norm.Value = 2.5
	assert.InEpsilon(t, 2.5*pl.Integral(.2, 2), s.Integral(.2, 2), 1e-12)

	// only the norm is exposed to a fitter
	ps := s.Params()
	if len(ps) != 1 || ps[0] != s.Norm {
		t.Fatalf("Scaled.Params = %v", ps)
	}
}

func TestParamClampAndBounds(t *testing.T) {
	p := NewParam("x", 5)
	assert.False(t, p.Bounded())
	assert.False(t, p.AtBound())

	p.Min, p.Max = 0, 10
	p.Value = -3
	assert.Equal(t, 0., p.Clamp())
	assert.True(t, p.AtBound())

	p.Value = 4
	assert.Equal(t, 4., p.Clamp())
	assert.False(t, p.AtBound())
}

func TestParamsFreeDedup(t *testing.T) {
	shared := NewParam("shared", 1)
	frozen := NewParam("frozen", 2)
	frozen.Frozen = true
	ps := Params{shared, frozen, shared, NewParam("other", 3)}
	free := ps.Free()
	if len(free) != 2 {
		t.Fatalf("Free() = %v, want shared and other once each", free)
	}
	assert.Same(t, shared, free[0])
}

func TestParamsValuesRoundTrip(t *testing.T) {
	a := NewParam("a", 1)
	b := NewParam("b", 2)
	b.Min, b.Max = 0, 1.5
	ps := Params{a, b}
	ps.SetValues([]float64{7, 9})
	assert.Equal(t, []float64{7, 1.5}, ps.Values(), "clamped to bounds")
}

func TestGaussSource(t *testing.T) {
	g := &GaussSource{Pos: sky.FromDeg(10, 20), Sigma: unit.AngleFromDeg(.2)}
	assert.InDelta(t, 1, g.Density(sky.FromDeg(10, 20)), 1e-12)
	at1 := g.Density(sky.FromDeg(10, 20.2))
	assert.InDelta(t, math.Exp(-.5), at1, 1e-6, "1 sigma offset")
	assert.Less(t, g.Density(sky.FromDeg(10, 21)), at1)
}
