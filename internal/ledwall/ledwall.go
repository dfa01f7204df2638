// Package ledwall drives the stage LED panel grid. Patterns are a
// closed enum of pure functions over (time, energy, cell), so the set is
// exhaustively checkable and there is no string-keyed dispatch.
package ledwall

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/lucasb-eyer/go-colorful"
)

// Pattern selects the brightness function applied to the grid.
type Pattern int

const (
	PatternWave Pattern = iota
	PatternCheckerboard
	PatternPulse
	PatternScroll
	PatternNoise
	PatternVU
	patternCount
)

func (p Pattern) String() string {
	switch p {
	case PatternWave:
		return "wave"
	case PatternCheckerboard:
		return "checkerboard"
	case PatternPulse:
		return "pulse"
	case PatternScroll:
		return "scroll"
	case PatternNoise:
		return "noise"
	case PatternVU:
		return "vu"
	}
	return "unknown"
}

// Wall is the LED panel grid. Brightness is row-major, one value per
// cell in [0,1], recomputed every frame by the active pattern.
type Wall struct {
	Rows, Cols int
	Brightness []float64
	Base       colorful.Color

	pattern Pattern
	time    float64
	noise   *perlin.Perlin
}

func New(rows, cols int, seed int64) *Wall {
	if rows <= 0 {
		rows = 4
	}
	if cols <= 0 {
		cols = 6
	}
	return &Wall{
		Rows:       rows,
		Cols:       cols,
		Brightness: make([]float64, rows*cols),
		Base:       colorful.Hsv(280, 0.9, 1), // club purple
		noise:      perlin.NewPerlin(2, 2, 3, seed),
	}
}

// At returns the brightness of cell (row, col).
func (w *Wall) At(row, col int) float64 {
	return w.Brightness[row*w.Cols+col]
}

// Pattern returns the active pattern.
func (w *Wall) Pattern() Pattern { return w.pattern }

// SetPattern selects a pattern directly (phase-driven selection).
func (w *Wall) SetPattern(p Pattern) {
	if p >= 0 && p < patternCount {
		w.pattern = p
	}
}

// CyclePattern steps to the next pattern (VJ control).
func (w *Wall) CyclePattern() Pattern {
	w.pattern = (w.pattern + 1) % patternCount
	return w.pattern
}

// SetHue rotates the wall's base color (VJ color control).
func (w *Wall) SetHue(deg float64) {
	w.Base = colorful.Hsv(math.Mod(deg, 360), 0.9, 1)
}

// Update recomputes every cell's brightness for the current frame.
// energy scales the overall level the same way fixture intensity scales:
// 60% floor up to 100% at full energy.
func (w *Wall) Update(dt float64, energy float64) {
	if dt < 0 {
		dt = 0
	}
	w.time += dt
	level := 0.6 + 0.4*clamp01(energy)

	for row := 0; row < w.Rows; row++ {
		for col := 0; col < w.Cols; col++ {
			u := float64(col) / float64(w.Cols)
			v := float64(row) / float64(w.Rows)
			w.Brightness[row*w.Cols+col] = clamp01(w.cell(u, v, energy)) * level
		}
	}
}

// cell evaluates the active pattern at normalized coordinates.
func (w *Wall) cell(u, v, energy float64) float64 {
	t := w.time
	switch w.pattern {
	case PatternWave:
		return 0.5 + 0.5*math.Sin(2*math.Pi*(u+v)+t*2)
	case PatternCheckerboard:
		a := int(u*float64(w.Cols)) + int(v*float64(w.Rows))
		phase := math.Mod(t, 1.0) < 0.5
		if (a%2 == 0) == phase {
			return 1
		}
		return 0.1
	case PatternPulse:
		return 0.5 + 0.5*math.Sin(t*2*math.Pi)
	case PatternScroll:
		d := math.Mod(u-t*0.5, 1.0)
		if d < 0 {
			d += 1
		}
		return math.Exp(-8 * d)
	case PatternNoise:
		return 0.5 + 0.5*w.noise.Noise3D(u*2, v*2, t*0.3)
	case PatternVU:
		// Columns fill bottom-up with the show energy; v=1 is the
		// bottom row.
		if 1-v <= clamp01(energy)+1e-9 {
			return 1
		}
		return 0.05
	}
	return 0
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
