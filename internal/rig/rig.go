// Package rig holds the fixed fixture registry: positions and initial
// colors are established once at startup, then the animators mutate aim,
// color and intensity in place every frame.
package rig

import (
	mgl "github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/my-pwa-apps/vrclub/internal/config"
	"github.com/my-pwa-apps/vrclub/internal/geom"
)

// Spotlight is a moving-head fixture hung from the truss.
type Spotlight struct {
	Index         int
	Pos           mgl.Vec3
	Pan           float64 // about vertical axis, [-pi/2, pi/2]
	Tilt          float64 // [-pi/2 (down), 0 (horizontal)]
	Color         colorful.Color
	BaseIntensity float64
	Intensity     float64
	Enabled       bool
}

// AimDir returns the spotlight's current beam direction.
func (s *Spotlight) AimDir() mgl.Vec3 { return geom.AimDir(s.Pan, s.Tilt) }

// Laser is a fanned emitter mounted on the back wall.
type Laser struct {
	Index         int
	Pos           mgl.Vec3
	Angle         float64 // fan rotation about the emit axis
	Color         colorful.Color
	BaseIntensity float64
	Intensity     float64
	Enabled       bool
}

// Rig is the full fixture registry plus the room it lives in.
type Rig struct {
	Bounds     geom.Bounds
	Spotlights []*Spotlight
	Lasers     []*Laser
	BallCenter mgl.Vec3
}

// Build lays the fixtures out from config: spotlights spread across a
// ceiling truss, lasers along the back wall, the mirror ball centered.
func Build(cfg *config.Config) *Rig {
	bounds := geom.NewBounds(
		mgl.Vec3{-cfg.Room.HalfWidth, 0, -cfg.Room.HalfDepth},
		mgl.Vec3{cfg.Room.HalfWidth, cfg.Room.Height, cfg.Room.HalfDepth},
	)
	r := &Rig{
		Bounds:     bounds,
		BallCenter: mgl.Vec3{0, cfg.MirrorBall.Height, 0},
	}

	trussY := cfg.Room.Height - 0.5
	span := cfg.Room.HalfWidth * 0.8
	n := cfg.Fixtures.Spotlights
	for i := 0; i < n; i++ {
		x := -span
		if n > 1 {
			x = -span + 2*span*float64(i)/float64(n-1)
		}
		r.Spotlights = append(r.Spotlights, &Spotlight{
			Index:         i,
			Pos:           mgl.Vec3{x, trussY, 0},
			Tilt:          -1.5707963267948966, // parked straight down
			Color:         colorful.Color{R: 1, G: 1, B: 1},
			BaseIntensity: 1.0,
			Enabled:       true,
		})
	}

	wallZ := -cfg.Room.HalfDepth + 0.3
	m := cfg.Fixtures.Lasers
	for i := 0; i < m; i++ {
		x := -span
		if m > 1 {
			x = -span + 2*span*float64(i)/float64(m-1)
		}
		r.Lasers = append(r.Lasers, &Laser{
			Index:         i,
			Pos:           mgl.Vec3{x, trussY - 1.5, wallZ},
			Color:         colorful.Color{R: 1, G: 0, B: 0},
			BaseIntensity: 1.0,
			Enabled:       true,
		})
	}

	return r
}
