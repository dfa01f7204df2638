// Package club is the conductor: it owns every show subsystem and runs
// the per-frame pipeline in dependency order: VJ events, then the
// director, then the fixture animators, the mirror ball and the LED
// wall, finishing with a frame snapshot for the output sinks.
package club

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/my-pwa-apps/vrclub/internal/animator"
	"github.com/my-pwa-apps/vrclub/internal/audio"
	"github.com/my-pwa-apps/vrclub/internal/config"
	"github.com/my-pwa-apps/vrclub/internal/console"
	"github.com/my-pwa-apps/vrclub/internal/director"
	"github.com/my-pwa-apps/vrclub/internal/ledwall"
	"github.com/my-pwa-apps/vrclub/internal/mirrorball"
	"github.com/my-pwa-apps/vrclub/internal/rig"
)

// Club owns the full show state. All mutation happens on the tick
// goroutine; Frame copies a snapshot out for sinks.
type Club struct {
	cfg *config.Config
	log zerolog.Logger

	Rig    *rig.Rig
	Dir    *director.Director
	Spots  *animator.SpotAnimator
	Lasers *animator.LaserAnimator
	Ball   *mirrorball.Model
	Wall   *ledwall.Wall

	bus       *console.Bus
	src       audio.Source
	strobe    bool // VJ strobe toggle, gated by spot mode downstream
	lastPhase director.Phase
	clock     float64
	frames    uint64
}

// New wires the subsystems. bus may be shared with any number of
// control surfaces; src supplies the optional audio energy feed.
func New(cfg *config.Config, bus *console.Bus, src audio.Source, log zerolog.Logger) *Club {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rig.Build(cfg)
	if src == nil {
		src = audio.Silence{}
	}
	c := &Club{
		cfg:    cfg,
		log:    log.With().Str("component", "club").Logger(),
		Rig:    r,
		Dir:    director.New(cfg, seed),
		Spots:  animator.NewSpotAnimator(seed + 1),
		Lasers: animator.NewLaserAnimator(),
		Ball: mirrorball.New(r.BallCenter, r.Bounds, cfg.MirrorBall.Facets,
			cfg.MirrorBall.SpinRPS, seed+2),
		Wall: ledwall.New(cfg.LEDWall.Rows, cfg.LEDWall.Cols, seed+3),
		bus:  bus,
		src:  src,
	}
	c.lastPhase = c.Dir.Phase()
	c.Wall.SetPattern(wallPatternFor(c.lastPhase))
	return c
}

// wallPatternFor maps each phase to the wall pattern that enters with
// it. VJ pattern cycling layers on top until the next automatic phase
// change after the cooldown.
func wallPatternFor(p director.Phase) ledwall.Pattern {
	switch p {
	case director.PhasePeak:
		return ledwall.PatternVU
	case director.PhaseBreakdown:
		return ledwall.PatternPulse
	case director.PhaseAmbient:
		return ledwall.PatternNoise
	case director.PhaseDrop:
		return ledwall.PatternCheckerboard
	}
	return ledwall.PatternWave
}

// Tick advances the whole show by dt seconds.
func (c *Club) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.clock += dt
	c.frames++

	c.drainEvents()

	level, live := c.src.Sample(dt)
	c.Dir.Advance(dt, level, live)

	// Each phase brings its own wall pattern; a VJ pattern choice sticks
	// for as long as the manual cooldown runs.
	if p := c.Dir.Phase(); p != c.lastPhase {
		c.lastPhase = p
		if !c.Dir.ManualActive() {
			c.Wall.SetPattern(wallPatternFor(p))
		}
	}

	groups := c.Dir.ActiveGroups()
	in := animator.Input{
		Energy:   c.Dir.Energy(),
		SpeedMul: c.Dir.PhaseSpeed(),
	}

	spotIn := in
	spotIn.Active = groups.Has(director.GroupSpotlights)
	spotIn.Strobe = c.strobe || groups.Has(director.GroupStrobes)
	c.Spots.Update(dt, c.Rig, spotIn)

	laserIn := in
	laserIn.Active = groups.Has(director.GroupLasers)
	c.Lasers.Update(dt, c.Rig, laserIn)

	if groups.Has(director.GroupMirrorBall) {
		c.Ball.Update(dt)
	}

	if groups.Has(director.GroupLEDWall) {
		c.Wall.Update(dt, c.Dir.Energy())
	}
}

// drainEvents applies every queued VJ input. Each manual input also
// freezes the laser auto color and starts the director cooldown.
func (c *Club) drainEvents() {
	if c.bus == nil {
		return
	}
	for {
		e, ok := c.bus.Poll()
		if !ok {
			return
		}
		c.apply(e)
	}
}

func (c *Club) apply(e console.Event) {
	c.log.Debug().Str("event", e.Kind.String()).Msg("VJ input")
	c.Lasers.Freeze()
	switch e.Kind {
	case console.KindToggleGroup:
		c.Dir.ToggleGroup(e.Group, e.On)
	case console.KindSelectPhase:
		c.Dir.OverridePhase(e.Phase)
	case console.KindNextLaserColor:
		c.Lasers.NextColor()
		c.Dir.MarkManual()
	case console.KindCycleSpotMode:
		c.Spots.CycleMode()
		c.Dir.MarkManual()
	case console.KindCycleMovePattern:
		c.Spots.CyclePattern()
		c.Dir.MarkManual()
	case console.KindCycleWallPattern:
		c.Wall.CyclePattern()
		c.Dir.MarkManual()
	case console.KindCycleBallColor:
		c.Ball.CycleColor()
		c.Dir.MarkManual()
	case console.KindToggleStrobe:
		c.strobe = e.On
		c.Dir.MarkManual()
	}
}

// Run ticks the club at the configured frame rate until ctx is done.
func (c *Club) Run(ctx context.Context, onFrame func(FrameState)) {
	fps := c.cfg.FPS
	dt := time.Second / time.Duration(fps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	c.log.Info().Int("fps", fps).Msg("show running")
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Uint64("frames", c.frames).Msg("show stopped")
			return
		case <-ticker.C:
			c.Tick(dt.Seconds())
			if onFrame != nil {
				onFrame(c.Frame())
			}
		}
	}
}
