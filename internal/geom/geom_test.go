package geom

import (
	"math"
	"testing"

	mgl "github.com/go-gl/mathgl/mgl64"
)

func room() Bounds {
	return NewBounds(mgl.Vec3{-15, 0, -15}, mgl.Vec3{15, 10, 15})
}

func TestIntersectRayKnownWall(t *testing.T) {
	b := room()
	origin := mgl.Vec3{0, 5, 0}

	p, s, ok := b.IntersectRay(origin, mgl.Vec3{1, 0, 0})
	if !ok {
		t.Fatal("expected a hit on the +x wall")
	}
	if s != SurfaceXMax {
		t.Fatalf("expected x-max surface, got %s", s)
	}
	want := mgl.Vec3{15, 5, 0}
	if p.Sub(want).Len() > 1e-9 {
		t.Fatalf("expected hit at %v, got %v", want, p)
	}
}

func TestIntersectRayEveryWall(t *testing.T) {
	b := room()
	origin := b.Center()
	cases := []struct {
		dir  mgl.Vec3
		want Surface
	}{
		{mgl.Vec3{-1, 0, 0}, SurfaceXMin},
		{mgl.Vec3{1, 0, 0}, SurfaceXMax},
		{mgl.Vec3{0, -1, 0}, SurfaceYMin},
		{mgl.Vec3{0, 1, 0}, SurfaceYMax},
		{mgl.Vec3{0, 0, -1}, SurfaceZMin},
		{mgl.Vec3{0, 0, 1}, SurfaceZMax},
	}
	for _, c := range cases {
		p, s, ok := b.IntersectRay(origin, c.dir)
		if !ok || s != c.want {
			t.Fatalf("dir %v: expected %s hit, got %s ok=%v", c.dir, c.want, s, ok)
		}
		if !b.Contains(p) {
			t.Fatalf("dir %v: hit %v lies outside the room", c.dir, p)
		}
	}
}

func TestIntersectRayDiagonalHitsNearestSurface(t *testing.T) {
	b := room()
	origin := mgl.Vec3{0, 5, 0}

	// Aimed at (15, 5, 10): the x-max wall is reached first; the z-max
	// plane candidate lands at x=22.5, outside its rectangle.
	dir := mgl.Vec3{15, 0, 10}.Normalize()
	p, s, ok := b.IntersectRay(origin, dir)
	if !ok || s != SurfaceXMax {
		t.Fatalf("expected x-max, got %s ok=%v", s, ok)
	}
	want := mgl.Vec3{15, 5, 10}
	if p.Sub(want).Len() > 1e-9 {
		t.Fatalf("expected %v, got %v", want, p)
	}
}

func TestIntersectRayNearCornerPicksSmallerT(t *testing.T) {
	b := room()
	origin := mgl.Vec3{0, 5, 0}

	// Grazes the wall/ceiling edge at (15, 10, 0). Both the x-max and
	// y-max planes yield valid candidates inside the edge tolerance;
	// the x-max hit has the strictly smaller t.
	dir := mgl.Vec3{15, 5 - 1e-9, 0}.Normalize()
	p, s, ok := b.IntersectRay(origin, dir)
	if !ok {
		t.Fatal("expected a hit near the corner")
	}
	if s != SurfaceXMax {
		t.Fatalf("expected the nearer x-max surface, got %s", s)
	}
	if math.Abs(p[0]-15) > 1e-9 {
		t.Fatalf("expected x=15, got %v", p)
	}
}

func TestIntersectRayDegenerateDirection(t *testing.T) {
	b := room()
	_, s, ok := b.IntersectRay(b.Center(), mgl.Vec3{0, 0, 0})
	if ok || s != SurfaceNone {
		t.Fatalf("zero direction must not produce a hit, got %s ok=%v", s, ok)
	}
}

func TestDirFromSpherical(t *testing.T) {
	up := DirFromSpherical(0, 0)
	if up.Sub(mgl.Vec3{0, 1, 0}).Len() > 1e-12 {
		t.Fatalf("phi=0 should point up, got %v", up)
	}
	down := DirFromSpherical(1.3, math.Pi)
	if down.Sub(mgl.Vec3{0, -1, 0}).Len() > 1e-9 {
		t.Fatalf("phi=pi should point down, got %v", down)
	}
	side := DirFromSpherical(0, math.Pi/2)
	if side.Sub(mgl.Vec3{1, 0, 0}).Len() > 1e-9 {
		t.Fatalf("theta=0 phi=pi/2 should point +x, got %v", side)
	}
}

func TestAimDir(t *testing.T) {
	down := AimDir(0, -math.Pi/2)
	if down.Sub(mgl.Vec3{0, -1, 0}).Len() > 1e-9 {
		t.Fatalf("tilt=-pi/2 should aim straight down, got %v", down)
	}
	fwd := AimDir(0, 0)
	if fwd.Sub(mgl.Vec3{0, 0, -1}).Len() > 1e-9 {
		t.Fatalf("pan=0 tilt=0 should aim -z, got %v", fwd)
	}
	if l := AimDir(0.7, -0.4).Len(); math.Abs(l-1) > 1e-12 {
		t.Fatalf("aim vector should be unit length, got %v", l)
	}
}
