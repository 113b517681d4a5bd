// Public domain.

package event

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/soniakeys/gammastat/energy"
	"github.com/soniakeys/gammastat/region"
	"github.com/soniakeys/gammastat/sky"
	"github.com/soniakeys/unit"
)

const sample = `# test observation
obs 23523
pointing 83.633 22.514
start 53343.92234
stop 53343.94114

# mjd ra dec energy
53343.92301 83.630 22.015 1.24
53343.92street bad line dropped
53343.92510 83.640 22.010 0.42
53343.93001 84.800 21.300 3.10
53343.93410 83.633 22.017 -2
`

func TestReadList(t *testing.T) {
	l, err := ReadList(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if l.Obs != "23523" {
		t.Errorf("Obs = %q", l.Obs)
	}
	if len(l.Events) != 3 {
		t.Fatalf("got %d events, want 3 (bad lines dropped)", len(l.Events))
	}
	if got := l.Events[0].Energy; got != 1.24 {
		t.Errorf("first energy = %g", got)
	}
	if lt := l.LiveTime(); math.Abs(lt-.0188*86400) > 1 {
		t.Errorf("LiveTime = %g s", lt)
	}
	if !l.Valid() {
		t.Error("list should be valid")
	}
}

func TestReadListHeaderErrors(t *testing.T) {
	for _, tc := range []struct{ name, in string }{
		{"missing obs", "pointing 1 2\nstart 100\nstop 101\n"},
		{"missing pointing", "obs 1\nstart 100\nstop 101\n"},
		{"stop before start", "obs 1\npointing 1 2\nstart 101\nstop 100\n"},
		{"bad pointing", "obs 1\npointing x y\nstart 100\nstop 101\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadList(strings.NewReader(tc.in)); err == nil {
				t.Fatal("want error")
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	l, err := ReadList(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := l.Write(&b); err != nil {
		t.Fatal(err)
	}
	got, err := ReadList(&b)
	if err != nil {
		t.Fatal(err)
	}
	if got.Obs != l.Obs || len(got.Events) != len(l.Events) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	for i := range got.Events {
		if math.Abs(got.Events[i].MJD-l.Events[i].MJD) > 1e-8 {
			t.Errorf("event %d MJD %g != %g", i, got.Events[i].MJD, l.Events[i].MJD)
		}
	}
}

func TestCountsIn(t *testing.T) {
	ax, _ := energy.NewAxis([]float64{.1, 1, 10})
	evs := []Event{
		{Energy: .5}, {Energy: .9}, {Energy: 2}, {Energy: 50}, {Energy: .01},
	}
	n := CountsIn(evs, ax)
	if n[0] != 2 || n[1] != 1 {
		t.Fatalf("counts = %v, want [2 1]", n)
	}
}

func TestInRegion(t *testing.T) {
	l, _ := ReadList(strings.NewReader(sample))
	on := region.Circle{Center: sky.FromDeg(83.633, 22.014), Radius: unit.AngleFromDeg(.11)}
	sel := l.InRegion(on)
	if len(sel) != 2 {
		t.Fatalf("got %d events in region, want 2", len(sel))
	}
}

func TestStartDate(t *testing.T) {
	l := &List{Start: 53343.92234, Stop: 53344}
	y, m, _ := l.StartDate()
	if y != 2004 || m != 12 {
		t.Fatalf("StartDate = %d-%d, want 2004-12", y, m)
	}
}
