package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MinPhaseSeconds is the floor applied to misconfigured phase durations.
const MinPhaseSeconds = 1.0

// DefaultOverrideCooldownS is how long automatic phase cycling stays
// suspended after a manual VJ input.
const DefaultOverrideCooldownS = 300.0

type Room struct {
	HalfWidth float64 `yaml:"half_width"` // x extent from center, meters
	HalfDepth float64 `yaml:"half_depth"` // z extent from center
	Height    float64 `yaml:"height"`
}

type PhaseCfg struct {
	MinS   float64 `yaml:"min_s"`
	MaxS   float64 `yaml:"max_s"`
	Energy float64 `yaml:"energy"` // target, 0..1
	Speed  float64 `yaml:"speed"`  // animator speed multiplier
}

type Phases struct {
	Build     PhaseCfg `yaml:"build"`
	Peak      PhaseCfg `yaml:"peak"`
	Breakdown PhaseCfg `yaml:"breakdown"`
	Ambient   PhaseCfg `yaml:"ambient"`
	Drop      PhaseCfg `yaml:"drop"`
}

type Fixtures struct {
	Spotlights int `yaml:"spotlights"`
	Lasers     int `yaml:"lasers"`
}

type MirrorBall struct {
	Facets  int     `yaml:"facets"`
	Height  float64 `yaml:"height"`   // mount height, meters
	SpinRPS float64 `yaml:"spin_rps"` // revolutions per second, sign = spin direction
}

type LEDWall struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

type SPI struct {
	Dev        string `yaml:"dev"` // e.g. /dev/spidev0.0, empty disables
	ColorOrder string `yaml:"color_order"`
}

type Config struct {
	FPS               int        `yaml:"fps"`
	Seed              int64      `yaml:"seed"` // 0 means time-seeded
	OverrideCooldownS float64    `yaml:"override_cooldown_s"`
	Room              Room       `yaml:"room"`
	Phases            Phases     `yaml:"phases"`
	Fixtures          Fixtures   `yaml:"fixtures"`
	MirrorBall        MirrorBall `yaml:"mirror_ball"`
	LEDWall           LEDWall    `yaml:"led_wall"`
	BPM               float64    `yaml:"bpm"`
	ListenAddr        string     `yaml:"listen_addr"`
	MIDIPort          string     `yaml:"midi_port"`
	SPI               SPI        `yaml:"spi"`
}

// Default returns the configuration the simulator runs with when no file
// is supplied.
func Default() *Config {
	return &Config{
		FPS:               60,
		OverrideCooldownS: DefaultOverrideCooldownS,
		Room:              Room{HalfWidth: 15, HalfDepth: 15, Height: 10},
		Phases: Phases{
			Build:     PhaseCfg{MinS: 30, MaxS: 40, Energy: 0.7, Speed: 1.0},
			Peak:      PhaseCfg{MinS: 20, MaxS: 30, Energy: 1.0, Speed: 1.0},
			Breakdown: PhaseCfg{MinS: 15, MaxS: 20, Energy: 0.4, Speed: 1.0},
			Ambient:   PhaseCfg{MinS: 20, MaxS: 30, Energy: 0.25, Speed: 0.5},
			Drop:      PhaseCfg{MinS: 25, MaxS: 35, Energy: 0.9, Speed: 2.0},
		},
		Fixtures:   Fixtures{Spotlights: 6, Lasers: 4},
		MirrorBall: MirrorBall{Facets: 240, Height: 8.5, SpinRPS: 0.1},
		LEDWall:    LEDWall{Rows: 4, Cols: 6},
		BPM:        126,
	}
}

// Load reads a yaml config and normalizes it. Fields left at zero fall
// back to defaults; out-of-range values are clamped rather than rejected.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.Normalize()
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Normalize clamps every tunable into its safe range.
func (c *Config) Normalize() {
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.OverrideCooldownS <= 0 {
		c.OverrideCooldownS = DefaultOverrideCooldownS
	}
	if c.Room.HalfWidth <= 0 {
		c.Room.HalfWidth = 15
	}
	if c.Room.HalfDepth <= 0 {
		c.Room.HalfDepth = 15
	}
	if c.Room.Height <= 0 {
		c.Room.Height = 10
	}
	for _, p := range []*PhaseCfg{
		&c.Phases.Build, &c.Phases.Peak, &c.Phases.Breakdown,
		&c.Phases.Ambient, &c.Phases.Drop,
	} {
		p.normalize()
	}
	if c.Fixtures.Spotlights <= 0 {
		c.Fixtures.Spotlights = 6
	}
	if c.Fixtures.Lasers <= 0 {
		c.Fixtures.Lasers = 4
	}
	if c.MirrorBall.Facets <= 0 {
		c.MirrorBall.Facets = 240
	}
	if c.MirrorBall.Height <= 0 || c.MirrorBall.Height > c.Room.Height {
		c.MirrorBall.Height = c.Room.Height * 0.85
	}
	if c.MirrorBall.SpinRPS == 0 {
		c.MirrorBall.SpinRPS = 0.1
	}
	if c.LEDWall.Rows <= 0 {
		c.LEDWall.Rows = 4
	}
	if c.LEDWall.Cols <= 0 {
		c.LEDWall.Cols = 6
	}
	if c.BPM <= 0 {
		c.BPM = 126
	}
}

func (p *PhaseCfg) normalize() {
	if p.MinS < MinPhaseSeconds {
		p.MinS = MinPhaseSeconds
	}
	if p.MaxS < p.MinS {
		p.MaxS = p.MinS
	}
	if p.Energy < 0 {
		p.Energy = 0
	}
	if p.Energy > 1 {
		p.Energy = 1
	}
	if p.Speed <= 0 {
		p.Speed = 1
	}
}
