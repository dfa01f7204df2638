package animator

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/my-pwa-apps/vrclub/internal/rig"
)

// laserColorStepS is the automatic R->G->B cycle period.
const laserColorStepS = 10.0

var laserPalette = []colorful.Color{
	{R: 1, G: 0, B: 0},
	{R: 0, G: 1, B: 0},
	{R: 0, G: 0, B: 1},
}

// LaserAnimator rotates the laser fans and cycles their color. The auto
// color cycle runs only until the first manual VJ input; after that the
// color holds until the VJ explicitly asks for the next one.
type LaserAnimator struct {
	time       float64
	colorIdx   int
	colorTimer float64
	frozen     bool
}

func NewLaserAnimator() *LaserAnimator { return &LaserAnimator{} }

// Freeze stops the automatic color cycle. Any manual VJ input freezes
// the current color.
func (a *LaserAnimator) Freeze() { a.frozen = true }

// Frozen reports whether the auto color cycle is suspended.
func (a *LaserAnimator) Frozen() bool { return a.frozen }

// NextColor advances to the next palette color on explicit VJ request.
// It also freezes the auto cycle, like any manual input.
func (a *LaserAnimator) NextColor() colorful.Color {
	a.frozen = true
	a.colorIdx = (a.colorIdx + 1) % len(laserPalette)
	a.colorTimer = 0
	return laserPalette[a.colorIdx]
}

// Color returns the current palette color.
func (a *LaserAnimator) Color() colorful.Color { return laserPalette[a.colorIdx] }

// Update advances fan rotation and color state and writes them into the
// rig's lasers.
func (a *LaserAnimator) Update(dt float64, r *rig.Rig, in Input) {
	if dt < 0 {
		dt = 0
	}
	speed := in.SpeedMul
	if speed <= 0 {
		speed = 1
	}
	a.time += dt * speed

	if !a.frozen {
		a.colorTimer += dt
		if a.colorTimer >= laserColorStepS {
			a.colorTimer = 0
			a.colorIdx = (a.colorIdx + 1) % len(laserPalette)
		}
	}

	c := laserPalette[a.colorIdx]
	for _, l := range r.Lasers {
		l.Enabled = in.Active
		if !in.Active {
			l.Intensity = 0
			continue
		}
		// Fans counter-rotate pairwise so adjacent emitters cross.
		sign := 1.0
		if l.Index%2 == 1 {
			sign = -1.0
		}
		l.Angle = math.Mod(sign*a.time*0.8+float64(l.Index)*0.5, 2*math.Pi)
		l.Color = c
		l.Intensity = l.BaseIntensity * (0.6 + 0.4*clamp01(in.Energy))
	}
}
