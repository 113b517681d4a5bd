// Public domain.

package region

import (
	"errors"
	"math"

	"github.com/soniakeys/gammastat/sky"
	"github.com/soniakeys/unit"
)

// ErrNoOffRegions is returned when no reflected background region fits
// the field.  Callers treat it as a recoverable per-observation
// condition: some pointings legitimately have no usable background
// geometry.
var ErrNoOffRegions = errors.New("region: no reflected OFF regions fit")

// ReflectedFinder places OFF regions by reflecting the ON region about
// the pointing direction: copies of the ON circle are rotated around
// the pointing axis so they sit on the same offset ring and therefore
// see the same acceptance.  With identical regions the background
// normalization is alpha = 1/len(off).
type ReflectedFinder struct {
	// MinSep is extra angular clearance required between the ON
	// region and the nearest OFF region, beyond their radii.
	MinSep unit.Angle

	// Max caps the number of OFF regions.  Zero means no cap.
	Max int
}

// Find returns reflected OFF regions for the given pointing and ON
// region.  ErrNoOffRegions is returned if none fit.
func (f ReflectedFinder) Find(pointing sky.Coord, on Circle) ([]Circle, error) {
	offset := sky.Separation(pointing, on.Center)
	if offset <= on.Radius {
		// ON region covers the pointing; nothing can be reflected
		return nil, ErrNoOffRegions
	}
	// half-opening angle of the ON circle as seen along the ring
	s := on.Radius.Rad() / offset.Rad()
	if s > 1 {
		s = 1
	}
	half := math.Asin(s)
	// rotation between adjacent OFF centers, with a small guard so
	// neighboring regions never touch
	step := 2 * half * 1.05
	// clearance from the ON region itself
	lead := 2*half + f.MinSep.Rad()/offset.Rad()

	var off []Circle
	for phi := lead + half; phi <= 2*math.Pi-(lead+half); phi += step {
		off = append(off, Circle{
			Center: sky.RotateAbout(on.Center, pointing, unit.Angle(phi)),
			Radius: on.Radius,
		})
		if f.Max > 0 && len(off) == f.Max {
			break
		}
	}
	if len(off) == 0 {
		return nil, ErrNoOffRegions
	}
	return off, nil
}

// Alpha returns the ON/OFF exposure ratio for a set of reflected
// regions: identical acceptance per region, so 1/n.
func Alpha(off []Circle) float64 {
	if len(off) == 0 {
		return 1
	}
	return 1 / float64(len(off))
}
