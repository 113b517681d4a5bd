// Public domain.

// Package sky provides sky coordinates and the small amount of
// spherical geometry the analysis needs: angular separations and
// rotations of one direction about another.
package sky

import (
	"math"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
)

// Coord is a sky direction in an equatorial frame.
type Coord struct {
	RA, Dec unit.Angle
}

// FromDeg constructs a Coord from decimal degrees, the convention of
// gamma-ray event data.
func FromDeg(ra, dec float64) Coord {
	return Coord{unit.AngleFromDeg(ra), unit.AngleFromDeg(dec)}
}

// Cart returns the unit vector for c.
func (c Coord) Cart() coord.Cart {
	sd, cd := math.Sincos(c.Dec.Rad())
	sr, cr := math.Sincos(c.RA.Rad())
	return coord.Cart{X: cr * cd, Y: sr * cd, Z: sd}
}

// FromCart returns the sky direction of vector v, which need not be
// normalized.
func FromCart(v coord.Cart) Coord {
	m := math.Sqrt(v.Square())
	ra := math.Atan2(v.Y, v.X)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return Coord{unit.Angle(ra), unit.Angle(math.Asin(v.Z / m))}
}

// Separation returns the great-circle angle between two directions.
func Separation(a, b Coord) unit.Angle {
	va, vb := a.Cart(), b.Cart()
	d := va.Dot(&vb)
	// clamp before acos; dot products of unit vectors drift past ±1
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return unit.Angle(math.Acos(d))
}

// RotateAbout rotates direction p by angle a about the axis direction.
// Rodrigues' formula on unit vectors.
func RotateAbout(p, axis Coord, a unit.Angle) Coord {
	v := p.Cart()
	k := axis.Cart()
	sa, ca := math.Sincos(a.Rad())
	kxv := coord.Cart{
		X: k.Y*v.Z - k.Z*v.Y,
		Y: k.Z*v.X - k.X*v.Z,
		Z: k.X*v.Y - k.Y*v.X,
	}
	kv := k.Dot(&v)
	var t1, t2, r coord.Cart
	t1.MulScalar(&v, ca)
	t2.MulScalar(&kxv, sa)
	r.Add(&t1, &t2)
	t2.MulScalar(&k, kv*(1-ca))
	r.Add(&r, &t2)
	return FromCart(r)
}
