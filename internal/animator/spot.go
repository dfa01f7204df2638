// Package animator computes per-frame aim, color and intensity for the
// spotlight and laser fixtures from the director's output. Every
// trajectory is a closed-form function of elapsed time, parameterized so
// the beam's floor hit stays inside the room by construction.
package animator

import (
	"math"
	"math/rand"

	"github.com/my-pwa-apps/vrclub/internal/rig"
)

// SpotMode is one of the four spotlight show modes. Only the two strobe
// modes let the strobe toggle reach the output.
type SpotMode int

const (
	ModeStrobeSweep SpotMode = iota
	ModeSweepOnly
	ModeStrobeStatic
	ModeStatic
	spotModeCount
)

func (m SpotMode) String() string {
	switch m {
	case ModeStrobeSweep:
		return "strobe+sweep"
	case ModeSweepOnly:
		return "sweep"
	case ModeStrobeStatic:
		return "strobe+static"
	case ModeStatic:
		return "static"
	}
	return "unknown"
}

func (m SpotMode) sweeps() bool { return m == ModeStrobeSweep || m == ModeSweepOnly }

// allowsStrobe reports whether the strobe toggle has any visible effect
// in this mode.
func (m SpotMode) allowsStrobe() bool { return m == ModeStrobeSweep || m == ModeStrobeStatic }

// MovePattern selects how the sweep modes move the beams.
type MovePattern int

const (
	PatternRandom MovePattern = iota // cycles through the trajectory set
	PatternStaticDown
	PatternSyncSweep
	movePatternCount
)

func (p MovePattern) String() string {
	switch p {
	case PatternRandom:
		return "random"
	case PatternStaticDown:
		return "static-down"
	case PatternSyncSweep:
		return "sync-sweep"
	}
	return "unknown"
}

// Trajectory is one named closed-form sweep shape.
type Trajectory int

const (
	TrajCircle Trajectory = iota
	TrajFigureEight
	TrajCrossSweep
	TrajPendulum
	TrajLissajous
	TrajSpiral
	TrajWave
	trajectoryCount
)

func (tr Trajectory) String() string {
	switch tr {
	case TrajCircle:
		return "circle"
	case TrajFigureEight:
		return "figure-eight"
	case TrajCrossSweep:
		return "cross-sweep"
	case TrajPendulum:
		return "pendulum"
	case TrajLissajous:
		return "lissajous"
	case TrajSpiral:
		return "spiral"
	case TrajWave:
		return "wave"
	}
	return "unknown"
}

// eval returns normalized sweep offsets in [-1,1] at angle u.
func (tr Trajectory) eval(u float64) (px, py float64) {
	switch tr {
	case TrajCircle:
		return math.Sin(u), math.Cos(u)
	case TrajFigureEight:
		return math.Sin(u), math.Sin(u) * math.Cos(u)
	case TrajCrossSweep:
		// Alternates a horizontal and a vertical stroke each half cycle.
		if int(math.Floor(u/math.Pi))%2 == 0 {
			return math.Sin(2 * u), 0
		}
		return 0, math.Sin(2 * u)
	case TrajPendulum:
		return math.Sin(u), -math.Abs(math.Cos(u)) * 0.4
	case TrajLissajous:
		return math.Sin(3 * u), math.Cos(2 * u)
	case TrajSpiral:
		r := 0.5 + 0.5*math.Sin(u/5)
		return r * math.Sin(u), r * math.Cos(u)
	case TrajWave:
		return math.Sin(u), 0.5 * math.Sin(3*u)
	}
	return 0, 0
}

const (
	// maxFloorReach bounds how far (meters) a sweeping beam's floor hit
	// may stray from the fixture's plumb point.
	maxFloorReach = 7.5

	// trajectoryHoldS is how long PatternRandom keeps one trajectory.
	trajectoryHoldS = 10.0

	strobeHz      = 10.0
	baseSweepRate = 0.9 // rad/s through trajectory parameter space

	halfPi = math.Pi / 2
)

// Input is the per-frame director state the animators consume.
type Input struct {
	Active   bool    // fixture group enabled
	Strobe   bool    // strobe toggle (or strobe group) requested
	Energy   float64 // smoothed show energy, 0..1
	SpeedMul float64 // phase speed multiplier
}

// SpotAnimator drives all spotlights. Mode, pattern and strobe toggle
// are VJ-controlled state; everything else derives from time and the
// director input.
type SpotAnimator struct {
	mode    SpotMode
	pattern MovePattern

	traj      Trajectory
	trajTimer float64
	rng       *rand.Rand

	time float64
}

func NewSpotAnimator(seed int64) *SpotAnimator {
	return &SpotAnimator{
		mode:    ModeStrobeSweep,
		pattern: PatternRandom,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (a *SpotAnimator) Mode() SpotMode                { return a.mode }
func (a *SpotAnimator) Pattern() MovePattern          { return a.pattern }
func (a *SpotAnimator) CurrentTrajectory() Trajectory { return a.traj }

// CycleMode steps to the next spotlight mode.
func (a *SpotAnimator) CycleMode() SpotMode {
	a.mode = (a.mode + 1) % spotModeCount
	return a.mode
}

// CyclePattern steps to the next movement pattern.
func (a *SpotAnimator) CyclePattern() MovePattern {
	a.pattern = (a.pattern + 1) % movePatternCount
	return a.pattern
}

// EffectiveStrobe gates the strobe toggle on the current mode: in the
// non-strobe modes the toggle is a no-op on the rendered output.
func (a *SpotAnimator) EffectiveStrobe(toggle bool) bool {
	return toggle && a.mode.allowsStrobe()
}

// Update advances time by dt and writes aim and intensity into every
// spotlight of the rig.
func (a *SpotAnimator) Update(dt float64, r *rig.Rig, in Input) {
	if dt < 0 {
		dt = 0
	}
	speed := in.SpeedMul
	if speed <= 0 {
		speed = 1
	}
	a.time += dt * baseSweepRate * speed

	if a.pattern == PatternRandom && a.mode.sweeps() {
		a.trajTimer += dt
		if a.trajTimer >= trajectoryHoldS {
			a.trajTimer = 0
			a.traj = Trajectory(a.rng.Intn(int(trajectoryCount)))
		}
	}

	flash := 1.0
	if a.EffectiveStrobe(in.Strobe) && math.Sin(a.time/baseSweepRate*2*math.Pi*strobeHz) <= 0 {
		flash = 0.0
	}

	for _, s := range r.Spotlights {
		s.Enabled = in.Active
		if !in.Active {
			s.Intensity = 0
			continue
		}
		if a.mode.sweeps() {
			s.Pan, s.Tilt = a.aim(s, r)
		}
		s.Intensity = s.BaseIntensity * (0.6 + 0.4*clamp01(in.Energy)) * flash
	}
}

// aim computes the pan/tilt for one spotlight under the active pattern.
func (a *SpotAnimator) aim(s *rig.Spotlight, r *rig.Rig) (pan, tilt float64) {
	switch a.pattern {
	case PatternStaticDown:
		return 0, -halfPi
	case PatternSyncSweep:
		// All beams move together left-right, half tilt. One shared
		// swing keeps every pan identical each frame.
		maxV := a.syncSwing(r)
		return 0.6 * maxV * math.Sin(a.time), -halfPi + 0.5*maxV
	default:
		px, py := a.traj.eval(a.time + float64(s.Index)*0.7)
		maxV := a.tiltSwing(s, r)
		v := (py*0.5 + 0.5) * maxV // 0 = straight down
		pan = px * halfPi * 0.9
		tilt = -halfPi + v
		return pan, tilt
	}
}

// tiltSwing bounds how far from vertical a beam may lean so its floor
// hit stays within maxFloorReach of the plumb point and inside the room.
func (a *SpotAnimator) tiltSwing(s *rig.Spotlight, r *rig.Rig) float64 {
	reach := maxFloorReach
	wall := r.Bounds.Max[0] - math.Abs(s.Pos[0])
	if wall < reach {
		reach = wall
	}
	if reach < 0.5 {
		reach = 0.5
	}
	return math.Atan2(reach, s.Pos[1])
}

// syncSwing is the tightest fixture's swing, so a synced sweep stays in
// bounds for the whole rig.
func (a *SpotAnimator) syncSwing(r *rig.Rig) float64 {
	v := halfPi
	for _, s := range r.Spotlights {
		if sw := a.tiltSwing(s, r); sw < v {
			v = sw
		}
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
