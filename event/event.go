// Public domain.

// Package event holds per-observation gamma-ray event lists.
//
// An event is a candidate photon with a reconstructed energy, a sky
// direction and an arrival time.  Events are created by the data store
// and consumed read-only; the reducer histograms them into datasets.
package event

import (
	"math"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/soniakeys/gammastat/energy"
	"github.com/soniakeys/gammastat/region"
	"github.com/soniakeys/gammastat/sky"
)

// mjdOffset converts between Julian date and modified Julian date.
const mjdOffset = 2400000.5

// Event is one observed candidate photon.
type Event struct {
	MJD    float64 // arrival time, modified Julian date
	Coord  sky.Coord
	Energy float64 // reconstructed energy, TeV
}

// List is the event list of a single observation.
type List struct {
	Obs      string // observation identifier
	Pointing sky.Coord
	Start    float64 // MJD
	Stop     float64 // MJD
	Events   []Event
}

// LiveTime returns the observation live time in seconds.  Dead-time
// correction is a property of the data store and is assumed already
// applied to the start/stop interval.
func (l *List) LiveTime() float64 {
	return (l.Stop - l.Start) * 86400
}

// StartDate returns the calendar date of the observation start.
func (l *List) StartDate() (year, month int, day float64) {
	return julian.JDToCalendar(l.Start + mjdOffset)
}

// InRegion returns the events falling inside r.
func (l *List) InRegion(r region.Circle) []Event {
	var sel []Event
	for _, e := range l.Events {
		if r.Contains(e.Coord) {
			sel = append(sel, e)
		}
	}
	return sel
}

// CountsIn histograms event energies over ax.  Events outside the axis
// are dropped.
func CountsIn(events []Event, ax energy.Axis) []float64 {
	n := make([]float64, ax.NBins())
	for _, e := range events {
		if i := ax.FindBin(e.Energy); i >= 0 {
			n[i]++
		}
	}
	return n
}

// Valid reports whether the list is usable for reduction: a positive
// time interval, events inside it in non-decreasing time order, and
// positive energies.
func (l *List) Valid() bool {
	if !(l.Stop > l.Start) {
		return false
	}
	t0 := l.Start
	for _, e := range l.Events {
		if e.MJD < t0 || e.MJD > l.Stop {
			return false
		}
		if !(e.Energy > 0) || math.IsNaN(e.Energy) {
			return false
		}
		t0 = e.MJD
	}
	return true
}
