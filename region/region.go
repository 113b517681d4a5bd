// Public domain.

// Package region defines sky regions used to select events, and the
// reflected-region method for finding background (OFF) regions.
//
// An ON region is presumed to contain source signal plus background.
// OFF regions are presumed background-only and are used to estimate the
// background under the ON region, scaled by the exposure ratio alpha.
package region

import (
	"github.com/soniakeys/gammastat/sky"
	"github.com/soniakeys/unit"
)

// Circle is a circular sky region.
type Circle struct {
	Center sky.Coord
	Radius unit.Angle
}

// Contains reports whether direction c falls inside the region.
func (r Circle) Contains(c sky.Coord) bool {
	return sky.Separation(r.Center, c) <= r.Radius
}

// Overlaps reports whether two circles intersect.
func (r Circle) Overlaps(o Circle) bool {
	return sky.Separation(r.Center, o.Center) < r.Radius+o.Radius
}
