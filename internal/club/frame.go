package club

import "github.com/my-pwa-apps/vrclub/internal/director"

// FrameState is the per-frame snapshot handed to output sinks: the
// websocket preview, the SPI LED bridge, or anything else that draws.
// It is plain data, safe to serialize off the tick goroutine.
type FrameState struct {
	Phase    string  `json:"phase"`
	Energy   float64 `json:"energy"`
	Manual   bool    `json:"manual"`
	Frame    uint64  `json:"frame"`
	ClockS   float64 `json:"clock_s"`
	SpotMode string  `json:"spot_mode"`
	Pattern  string  `json:"move_pattern"`
	WallMode string  `json:"wall_pattern"`
	Strobe   bool    `json:"strobe"`

	Spotlights []SpotState  `json:"spotlights"`
	Lasers     []LaserState `json:"lasers"`
	Ball       BallState    `json:"ball"`
	Wall       WallState    `json:"wall"`
}

type SpotState struct {
	Pos       [3]float64 `json:"pos"`
	Pan       float64    `json:"pan"`
	Tilt      float64    `json:"tilt"`
	Color     [3]float64 `json:"color"`
	Intensity float64    `json:"intensity"`
	Enabled   bool       `json:"enabled"`
}

type LaserState struct {
	Pos       [3]float64 `json:"pos"`
	Angle     float64    `json:"angle"`
	Color     [3]float64 `json:"color"`
	Intensity float64    `json:"intensity"`
	Enabled   bool       `json:"enabled"`
}

type SpotMarker struct {
	Pos       [3]float64 `json:"pos"`
	Intensity float64    `json:"intensity"`
}

type BallState struct {
	Active   bool         `json:"active"`
	Rotation float64      `json:"rotation"`
	Color    [3]float64   `json:"color"`
	Spots    []SpotMarker `json:"spots"`
}

type WallState struct {
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	Base       [3]float64 `json:"base"`
	Brightness []float64  `json:"brightness"`
}

// Frame snapshots the current show state.
func (c *Club) Frame() FrameState {
	groups := c.Dir.ActiveGroups()

	fs := FrameState{
		Phase:    c.Dir.Phase().String(),
		Energy:   c.Dir.Energy(),
		Manual:   c.Dir.ManualActive(),
		Frame:    c.frames,
		ClockS:   c.clock,
		SpotMode: c.Spots.Mode().String(),
		Pattern:  c.Spots.Pattern().String(),
		WallMode: c.Wall.Pattern().String(),
		Strobe:   c.Spots.EffectiveStrobe(c.strobe),
	}

	for _, s := range c.Rig.Spotlights {
		fs.Spotlights = append(fs.Spotlights, SpotState{
			Pos:       s.Pos,
			Pan:       s.Pan,
			Tilt:      s.Tilt,
			Color:     [3]float64{s.Color.R, s.Color.G, s.Color.B},
			Intensity: s.Intensity,
			Enabled:   s.Enabled,
		})
	}
	for _, l := range c.Rig.Lasers {
		fs.Lasers = append(fs.Lasers, LaserState{
			Pos:       l.Pos,
			Angle:     l.Angle,
			Color:     [3]float64{l.Color.R, l.Color.G, l.Color.B},
			Intensity: l.Intensity,
			Enabled:   l.Enabled,
		})
	}

	fs.Ball = BallState{
		Active:   groups.Has(director.GroupMirrorBall),
		Rotation: c.Ball.Rotation(),
		Color:    [3]float64{c.Ball.Color.R, c.Ball.Color.G, c.Ball.Color.B},
	}
	if fs.Ball.Active {
		for _, sp := range c.Ball.Spots {
			if !sp.Valid {
				continue
			}
			fs.Ball.Spots = append(fs.Ball.Spots, SpotMarker{
				Pos:       sp.Pos,
				Intensity: sp.Intensity,
			})
		}
	}

	fs.Wall = WallState{
		Rows:       c.Wall.Rows,
		Cols:       c.Wall.Cols,
		Base:       [3]float64{c.Wall.Base.R, c.Wall.Base.G, c.Wall.Base.B},
		Brightness: append([]float64(nil), c.Wall.Brightness...),
	}
	return fs
}
