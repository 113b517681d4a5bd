// Public domain.

package irf

import (
	"bytes"
	"encoding/gob"
	"math"
	"testing"

	"github.com/soniakeys/gammastat/energy"
)

func testAeff() *EffArea {
	a, err := NewEffArea(
		[]float64{.05, .1, .3, 1, 3, 10, 50},
		[]float64{1e3, 2e4, 8e4, 1.6e5, 2e5, 2.1e5, 1.8e5})
	if err != nil {
		panic(err)
	}
	return a
}

func TestEffAreaAt(t *testing.T) {
	a := testAeff()
	// exact at nodes
	if got := a.At(1); got != 1.6e5 {
		t.Errorf("At(1) = %g, want 1.6e5", got)
	}
	// between nodes, between node values
	if got := a.At(2); got <= 1.6e5 || got >= 2e5 {
		t.Errorf("At(2) = %g, want within (1.6e5, 2e5)", got)
	}
	// clamped outside the table
	if got := a.At(.001); got != 1e3 {
		t.Errorf("At(.001) = %g, want 1e3", got)
	}
	if got := a.At(500); got != 1.8e5 {
		t.Errorf("At(500) = %g, want 1.8e5", got)
	}
}

func TestEffAreaValidation(t *testing.T) {
	if _, err := NewEffArea([]float64{1}, []float64{1}); err == nil {
		t.Error("single node accepted")
	}
	if _, err := NewEffArea([]float64{1, 2}, []float64{1, -1}); err == nil {
		t.Error("negative area accepted")
	}
	if _, err := NewEffArea([]float64{-1, 2}, []float64{1, 1}); err == nil {
		t.Error("negative energy accepted")
	}
}

func TestSafeThreshold(t *testing.T) {
	a := testAeff()
	// 10% of max (2.1e5) = 2.1e4; first node reaching it is 0.3
	if got := a.SafeThreshold(.1); got != .3 {
		t.Errorf("SafeThreshold(.1) = %g, want 0.3", got)
	}
	if got := a.SafeThreshold(0); got != .05 {
		t.Errorf("SafeThreshold(0) = %g, want 0.05", got)
	}
}

func testEdisp() *EDisp {
	d, err := NewEDisp(
		[]float64{.05, .5, 5, 50},
		[]float64{.25, .15, .1, .12},
		nil)
	if err != nil {
		panic(err)
	}
	return d
}

func TestEDispMatrix(t *testing.T) {
	d := testEdisp()
	trueAx, _ := energy.LogAxis(.1, 30, 30)
	recoAx, _ := energy.LogAxis(.1, 30, 20)
	m := d.Matrix(trueAx, recoAx)

	rows, cols := m.Dims()
	if rows != 30 || cols != 20 {
		t.Fatalf("dims = %d x %d", rows, cols)
	}
	for k := 0; k < rows; k++ {
		sum := 0.
		for i := 0; i < cols; i++ {
			p := m.At(k, i)
			if p < 0 {
				t.Fatalf("negative probability at (%d,%d)", k, i)
			}
			sum += p
		}
		if sum > 1+1e-9 {
			t.Fatalf("row %d sums to %g > 1", k, sum)
		}
	}
	// well inside the axis nearly all probability is captured
	k := trueAx.FindBin(3)
	sum := 0.
	for i := 0; i < cols; i++ {
		sum += m.At(k, i)
	}
	if sum < .99 {
		t.Fatalf("central row sums to %g, want ~1", sum)
	}
}

func TestGaussBinProb(t *testing.T) {
	// symmetric interval around the mean holds erf mass
	if got := gaussBinProb(1, .1, .9, 1.1); math.Abs(got-.6827) > .001 {
		t.Errorf("1 sigma mass = %g", got)
	}
	total := gaussBinProb(1, .1, 0, 2)
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("full mass = %g", total)
	}
}

func TestIRFGobRoundTrip(t *testing.T) {
	a := testAeff()
	d := testEdisp()
	var b bytes.Buffer
	enc := gob.NewEncoder(&b)
	if err := enc.Encode(a); err != nil {
		t.Fatal(err)
	}
	if err := enc.Encode(d); err != nil {
		t.Fatal(err)
	}
	dec := gob.NewDecoder(&b)
	var a2 EffArea
	var d2 EDisp
	if err := dec.Decode(&a2); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(&d2); err != nil {
		t.Fatal(err)
	}
	if got := a2.At(2); math.Abs(got-a.At(2)) > 1e-9 {
		t.Errorf("decoded At(2) = %g, want %g", got, a.At(2))
	}
	if got := d2.SigmaAt(1); math.Abs(got-d.SigmaAt(1)) > 1e-9 {
		t.Errorf("decoded SigmaAt(1) = %g, want %g", got, d.SigmaAt(1))
	}
}
