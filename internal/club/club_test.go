package club

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/my-pwa-apps/vrclub/internal/audio"
	"github.com/my-pwa-apps/vrclub/internal/config"
	"github.com/my-pwa-apps/vrclub/internal/console"
	"github.com/my-pwa-apps/vrclub/internal/director"
)

func newClub(t *testing.T) (*Club, *console.Bus) {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 1
	bus := console.NewBus()
	return New(cfg, bus, audio.Silence{}, zerolog.Nop()), bus
}

func TestToggleMirrorBallDropsSpotlights(t *testing.T) {
	c, bus := newClub(t)
	c.Tick(1.0 / 60.0)
	if !c.Dir.ActiveGroups().Has(director.GroupSpotlights) {
		t.Fatal("build phase should start with spotlights")
	}

	bus.Publish(console.Event{Kind: console.KindToggleGroup, Group: director.GroupMirrorBall, On: true})
	c.Tick(1.0 / 60.0)

	g := c.Dir.ActiveGroups()
	if !g.Has(director.GroupMirrorBall) {
		t.Fatal("mirror ball should be active")
	}
	if g.Has(director.GroupSpotlights) || g.Has(director.GroupLasers) {
		t.Fatal("spotlights/lasers must be off while the ball is up")
	}
	for _, s := range c.Rig.Spotlights {
		if s.Enabled {
			t.Fatal("spotlight fixtures should be disabled on the following frame")
		}
	}
}

func TestManualInputFreezesLaserColor(t *testing.T) {
	c, bus := newClub(t)
	if c.Lasers.Frozen() {
		t.Fatal("laser cycle starts automatic")
	}
	bus.Publish(console.Event{Kind: console.KindCycleSpotMode})
	c.Tick(1.0 / 60.0)
	if !c.Lasers.Frozen() {
		t.Fatal("any manual input freezes the laser auto cycle")
	}
	if !c.Dir.ManualActive() {
		t.Fatal("any manual input starts the override cooldown")
	}
}

func TestBallRotatesOnlyWhileActive(t *testing.T) {
	c, bus := newClub(t)
	// BUILD has no mirror ball; rotation must hold still.
	for i := 0; i < 60; i++ {
		c.Tick(1.0 / 60.0)
	}
	if c.Ball.Rotation() != 0 {
		t.Fatalf("ball rotated while inactive: %v", c.Ball.Rotation())
	}

	bus.Publish(console.Event{Kind: console.KindToggleGroup, Group: director.GroupMirrorBall, On: true})
	for i := 0; i < 60; i++ {
		c.Tick(1.0 / 60.0)
	}
	if c.Ball.Rotation() == 0 {
		t.Fatal("ball should rotate while active")
	}
}

func TestFrameSnapshotSerializes(t *testing.T) {
	c, bus := newClub(t)
	bus.Publish(console.Event{Kind: console.KindToggleGroup, Group: director.GroupMirrorBall, On: true})
	for i := 0; i < 10; i++ {
		c.Tick(1.0 / 60.0)
	}

	fs := c.Frame()
	if !fs.Ball.Active || len(fs.Ball.Spots) == 0 {
		t.Fatal("expected active ball with reflection spots in the snapshot")
	}
	if len(fs.Spotlights) != len(c.Rig.Spotlights) {
		t.Fatal("snapshot missing spotlights")
	}
	if got := len(fs.Wall.Brightness); got != fs.Wall.Rows*fs.Wall.Cols {
		t.Fatalf("wall brightness has %d cells, want %d", got, fs.Wall.Rows*fs.Wall.Cols)
	}

	b, err := json.Marshal(fs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back FrameState
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Phase != fs.Phase || back.Energy != fs.Energy {
		t.Fatal("snapshot did not round-trip")
	}
}

func TestStrobeToggleGatedThroughModes(t *testing.T) {
	c, bus := newClub(t)
	bus.Publish(console.Event{Kind: console.KindToggleStrobe, On: true})
	c.Tick(1.0 / 60.0)
	// Default mode is strobe+sweep: toggle is visible.
	if !c.Frame().Strobe {
		t.Fatal("strobe should be effective in a strobe mode")
	}
	// Cycle to sweep-only: the toggle must become a rendering no-op.
	bus.Publish(console.Event{Kind: console.KindCycleSpotMode})
	c.Tick(1.0 / 60.0)
	if c.Frame().Strobe {
		t.Fatal("strobe must be gated off in sweep-only mode")
	}
}

func TestWallPatternFollowsPhase(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 1
	short := config.PhaseCfg{MinS: 1, MaxS: 1, Energy: 0.5, Speed: 1}
	cfg.Phases = config.Phases{Build: short, Peak: short, Breakdown: short, Ambient: short, Drop: short}
	c := New(cfg, console.NewBus(), audio.Silence{}, zerolog.Nop())

	if got := c.Wall.Pattern(); got != wallPatternFor(director.PhaseBuild) {
		t.Fatalf("initial wall pattern %s, want %s", got, wallPatternFor(director.PhaseBuild))
	}

	seen := map[director.Phase]bool{c.Dir.Phase(): true}
	for i := 0; i < 60; i++ {
		c.Tick(0.5)
		seen[c.Dir.Phase()] = true
		if got, want := c.Wall.Pattern(), wallPatternFor(c.Dir.Phase()); got != want {
			t.Fatalf("phase %s: wall pattern %s, want %s", c.Dir.Phase(), got, want)
		}
	}
	if len(seen) != 5 {
		t.Fatalf("cycle visited %d phases, want 5", len(seen))
	}
}

func TestVJWallPatternSticksDuringCooldown(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 1
	cfg.OverrideCooldownS = 2
	short := config.PhaseCfg{MinS: 1, MaxS: 1, Energy: 0.5, Speed: 1}
	cfg.Phases = config.Phases{Build: short, Peak: short, Breakdown: short, Ambient: short, Drop: short}
	bus := console.NewBus()
	c := New(cfg, bus, audio.Silence{}, zerolog.Nop())

	bus.Publish(console.Event{Kind: console.KindCycleWallPattern})
	c.Tick(1.0 / 60.0)
	chosen := c.Wall.Pattern()
	if chosen == wallPatternFor(c.Dir.Phase()) {
		t.Fatal("cycling should move off the phase default")
	}

	// Cooldown running: the VJ's choice holds.
	for i := 0; i < 3; i++ {
		c.Tick(0.5)
		if c.Wall.Pattern() != chosen {
			t.Fatal("manual wall pattern must hold through the cooldown")
		}
	}
	// Cooldown over: the next automatic phase change retakes the wall.
	start := c.Dir.Phase()
	for i := 0; i < 20 && c.Dir.Phase() == start; i++ {
		c.Tick(0.5)
	}
	if got, want := c.Wall.Pattern(), wallPatternFor(c.Dir.Phase()); got != want {
		t.Fatalf("after cooldown: wall pattern %s, want %s", got, want)
	}
}

func TestTickWithNegativeDeltaIsSafe(t *testing.T) {
	c, _ := newClub(t)
	c.Tick(1.0 / 60.0)
	phase := c.Dir.Phase()
	energy := c.Dir.Energy()
	c.Tick(-1)
	if c.Dir.Phase() != phase || c.Dir.Energy() != energy {
		t.Fatal("negative dt must be clamped to zero")
	}
}
