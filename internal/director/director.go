// Package director owns the automated light-show state: the current
// phase, the smoothed energy level, and which fixture groups are live.
// It is a pure in-memory state machine advanced by an injected delta
// time, so it tests without a scene or a real clock.
package director

import (
	"math"
	"math/rand"

	"github.com/my-pwa-apps/vrclub/internal/config"
)

// Phase is one named segment of the automated show.
type Phase int

const (
	PhaseBuild Phase = iota
	PhasePeak
	PhaseBreakdown
	PhaseAmbient
	PhaseDrop
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseBuild:
		return "build"
	case PhasePeak:
		return "peak"
	case PhaseBreakdown:
		return "breakdown"
	case PhaseAmbient:
		return "ambient"
	case PhaseDrop:
		return "drop"
	}
	return "unknown"
}

// Next returns the phase that follows p in the automatic cycle.
func (p Phase) Next() Phase {
	return (p + 1) % phaseCount
}

// GroupMask is a bit set of fixture groups.
type GroupMask uint8

const (
	GroupSpotlights GroupMask = 1 << iota
	GroupLasers
	GroupMirrorBall
	GroupLEDWall
	GroupStrobes
)

// Has reports whether every group in g is set.
func (m GroupMask) Has(g GroupMask) bool { return m&g == g }

// beamGroups conflict with the mirror ball: the ball owns the room's
// moving light when it is up.
const beamGroups = GroupSpotlights | GroupLasers

// applyExclusive toggles g in m and enforces the mirror-ball rule:
// raising the ball drops spotlights and lasers, raising either of those
// drops the ball.
func applyExclusive(m GroupMask, g GroupMask, on bool) GroupMask {
	if !on {
		return m &^ g
	}
	m |= g
	if g&GroupMirrorBall != 0 {
		m &^= beamGroups
	} else if g&beamGroups != 0 {
		m &^= GroupMirrorBall
	}
	return m
}

// phaseSpec is the resolved per-phase tuning.
type phaseSpec struct {
	minS, maxS float64
	energy     float64
	speed      float64
	groups     GroupMask
}

// energyTauS is the time constant of the exponential energy smoothing.
const energyTauS = 2.0

// Director sequences phases and smooths the energy scalar. All methods
// are main-loop only; there is no internal locking.
type Director struct {
	specs [phaseCount]phaseSpec
	rng   *rand.Rand

	phase     Phase
	remaining float64
	energy    float64
	groups    GroupMask

	clock         float64
	manualUntil   float64
	cooldown      float64
	timerSpeedMul float64
}

// New builds a director from config. seed fixes the duration
// randomization for reproducible runs and tests.
func New(cfg *config.Config, seed int64) *Director {
	d := &Director{
		rng:           rand.New(rand.NewSource(seed)),
		cooldown:      cfg.OverrideCooldownS,
		timerSpeedMul: 1.0,
	}
	set := func(p Phase, pc config.PhaseCfg, groups GroupMask) {
		d.specs[p] = phaseSpec{minS: pc.MinS, maxS: pc.MaxS, energy: pc.Energy, speed: pc.Speed, groups: groups}
	}
	set(PhaseBuild, cfg.Phases.Build, GroupSpotlights|GroupLEDWall)
	set(PhasePeak, cfg.Phases.Peak, GroupSpotlights|GroupLasers|GroupLEDWall|GroupStrobes)
	set(PhaseBreakdown, cfg.Phases.Breakdown, GroupLasers|GroupLEDWall)
	set(PhaseAmbient, cfg.Phases.Ambient, GroupMirrorBall|GroupLEDWall)
	set(PhaseDrop, cfg.Phases.Drop, GroupSpotlights|GroupLasers|GroupLEDWall|GroupStrobes)

	d.energy = 0.5
	d.enterPhase(PhaseBuild)
	return d
}

func (d *Director) enterPhase(p Phase) {
	d.phase = p
	s := d.specs[p]
	d.remaining = s.minS + d.rng.Float64()*(s.maxS-s.minS)
	d.groups = s.groups
}

// Advance moves the show forward by dt seconds. audio is an energy
// sample in [0,1]; live reports whether an audio stream is actually
// playing. Negative dt is clamped to zero, so Advance(0) is a no-op on
// phase, energy and timers.
func (d *Director) Advance(dt float64, audio float64, live bool) {
	if dt < 0 {
		dt = 0
	}
	d.clock += dt

	d.timerSpeedMul = 1.0
	if live {
		d.timerSpeedMul = 1.0 + clamp01(audio)*0.5
		if d.timerSpeedMul > 1.5 {
			d.timerSpeedMul = 1.5
		}
	}

	if !d.ManualActive() && dt > 0 {
		d.remaining -= dt * d.timerSpeedMul
		if d.remaining <= 0 {
			d.enterPhase(d.phase.Next())
		}
	}

	// Frame-rate independent form of energy += (target-energy)*k.
	if dt > 0 {
		k := 1 - math.Exp(-dt/energyTauS)
		d.energy += (d.specs[d.phase].energy - d.energy) * k
		d.energy = clamp01(d.energy)
	}
}

// OverridePhase jumps the show to p and suspends automatic cycling for
// the cooldown window.
func (d *Director) OverridePhase(p Phase) {
	if p < 0 || p >= phaseCount {
		return
	}
	d.enterPhase(p)
	d.markManual()
}

// ToggleGroup flips a fixture group by VJ request, applying the
// mirror-ball exclusivity rule, and suspends automatic cycling.
func (d *Director) ToggleGroup(g GroupMask, on bool) {
	d.groups = applyExclusive(d.groups, g, on)
	d.markManual()
}

// MarkManual registers a VJ input that changes no director state of its
// own (mode or pattern cycling) but still pauses the auto show.
func (d *Director) MarkManual() { d.markManual() }

func (d *Director) markManual() {
	d.manualUntil = d.clock + d.cooldown
}

// ManualActive reports whether the VJ override cooldown is running.
func (d *Director) ManualActive() bool { return d.clock < d.manualUntil }

// ActiveGroups returns the fixture groups that should be enabled.
func (d *Director) ActiveGroups() GroupMask { return d.groups }

// Energy returns the smoothed show energy in [0,1].
func (d *Director) Energy() float64 { return d.energy }

// Phase returns the current phase.
func (d *Director) Phase() Phase { return d.phase }

// PhaseSpeed returns the animator speed multiplier of the current phase.
func (d *Director) PhaseSpeed() float64 { return d.specs[d.phase].speed }

// TimerSpeed returns the audio-reactive multiplier applied to the phase
// countdown on the last Advance, in [1.0, 1.5].
func (d *Director) TimerSpeed() float64 { return d.timerSpeedMul }

// Remaining returns seconds left in the current phase at the current
// timer speed of 1x.
func (d *Director) Remaining() float64 { return d.remaining }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
