package geom

import (
	"math"

	mgl "github.com/go-gl/mathgl/mgl64"
)

// extentEps pads the finite-rectangle check so rays grazing an edge or
// corner still register against both adjoining surfaces.
const extentEps = 1e-6

// dirEps rejects ray directions that run parallel to a plane.
const dirEps = 1e-12

// Surface identifies one of the six bounding planes of the room.
type Surface int

const (
	SurfaceNone Surface = iota
	SurfaceXMin
	SurfaceXMax
	SurfaceYMin // floor
	SurfaceYMax // ceiling
	SurfaceZMin
	SurfaceZMax
)

func (s Surface) String() string {
	switch s {
	case SurfaceXMin:
		return "x-min"
	case SurfaceXMax:
		return "x-max"
	case SurfaceYMin:
		return "floor"
	case SurfaceYMax:
		return "ceiling"
	case SurfaceZMin:
		return "z-min"
	case SurfaceZMax:
		return "z-max"
	}
	return "none"
}

// Bounds is the rectangular room: six axis-aligned bounded planes.
type Bounds struct {
	Min mgl.Vec3
	Max mgl.Vec3
}

// NewBounds orders the corner pair so Min <= Max on every axis.
func NewBounds(a, b mgl.Vec3) Bounds {
	var bd Bounds
	for i := 0; i < 3; i++ {
		bd.Min[i] = math.Min(a[i], b[i])
		bd.Max[i] = math.Max(a[i], b[i])
	}
	return bd
}

// Contains reports whether p lies within or on the bounds.
func (b Bounds) Contains(p mgl.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i]-extentEps || p[i] > b.Max[i]+extentEps {
			return false
		}
	}
	return true
}

// Center returns the geometric center of the room.
func (b Bounds) Center() mgl.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// IntersectRay finds the nearest point where a ray from origin along dir
// first meets one of the six bounded planes. Each plane is a finite
// rectangle; a candidate whose other two coordinates fall outside that
// rectangle is rejected. Among the valid candidates the smallest positive
// t wins. ok is false when no plane yields a valid hit, which for an
// origin inside the box only happens at degenerate corner directions.
func (b Bounds) IntersectRay(origin, dir mgl.Vec3) (point mgl.Vec3, surface Surface, ok bool) {
	best := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		d := dir[axis]
		if math.Abs(d) < dirEps {
			continue
		}
		for side := 0; side < 2; side++ {
			var coord float64
			if side == 0 {
				coord = b.Min[axis]
			} else {
				coord = b.Max[axis]
			}
			t := (coord - origin[axis]) / d
			if t <= dirEps || t >= best {
				continue
			}
			p := origin.Add(dir.Mul(t))
			p[axis] = coord // kill accumulated rounding on the fixed axis
			if !b.inRect(p, axis) {
				continue
			}
			best = t
			point = p
			surface = surfaceFor(axis, side)
		}
	}
	if math.IsInf(best, 1) {
		return mgl.Vec3{}, SurfaceNone, false
	}
	return point, surface, true
}

// inRect checks the two free axes of a candidate against the plane's
// finite extent.
func (b Bounds) inRect(p mgl.Vec3, fixedAxis int) bool {
	for i := 0; i < 3; i++ {
		if i == fixedAxis {
			continue
		}
		if p[i] < b.Min[i]-extentEps || p[i] > b.Max[i]+extentEps {
			return false
		}
	}
	return true
}

func surfaceFor(axis, side int) Surface {
	switch axis {
	case 0:
		if side == 0 {
			return SurfaceXMin
		}
		return SurfaceXMax
	case 1:
		if side == 0 {
			return SurfaceYMin
		}
		return SurfaceYMax
	default:
		if side == 0 {
			return SurfaceZMin
		}
		return SurfaceZMax
	}
}

// DirFromSpherical converts (theta, phi) to a unit direction.
// theta is the azimuth around the vertical axis; phi is the polar angle
// measured from straight up, so phi=0 points at the ceiling and phi=pi
// at the floor.
func DirFromSpherical(theta, phi float64) mgl.Vec3 {
	sp := math.Sin(phi)
	return mgl.Vec3{
		sp * math.Cos(theta),
		math.Cos(phi),
		sp * math.Sin(theta),
	}
}

// AimDir converts a fixture pan/tilt pair to a unit direction.
// pan rotates about the vertical axis (0 faces -z); tilt runs from
// -pi/2 (straight down) up to 0 (horizontal).
func AimDir(pan, tilt float64) mgl.Vec3 {
	ct := math.Cos(tilt)
	return mgl.Vec3{
		ct * math.Sin(pan),
		math.Sin(tilt),
		-ct * math.Cos(pan),
	}
}
