// Package mirrorball models the reflection spots a faceted mirror ball
// sweeps across the room. Each facet is just a fixed angular offset;
// every frame a ray from the ball center is intersected against the six
// room surfaces and the spot marker placed on the nearest hit.
package mirrorball

import (
	"math"
	"math/rand"

	mgl "github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/my-pwa-apps/vrclub/internal/geom"
)

const (
	shimmerBase = 0.7
	shimmerAmp  = 0.3
	shimmerFreq = 6.0

	// ballSpinSign calibrates the apparent spin direction against the
	// direction the spots sweep the walls. Tuned visually; flip here if
	// the two ever read as opposed.
	ballSpinSign = 1.0
)

// Facet is one simulated mirror tile, fixed at creation.
type Facet struct {
	ThetaOff float64 // azimuth offset from the ball rotation
	PhiOff   float64 // polar offset, kept away from the poles
}

// Spot is the wall marker a facet's ray currently lights.
type Spot struct {
	Pos       mgl.Vec3
	Surface   geom.Surface
	Intensity float64
	Valid     bool // false until the facet's ray has hit a surface once
}

// Model recomputes all reflection spots once per frame.
type Model struct {
	Center mgl.Vec3
	Bounds geom.Bounds
	Color  colorful.Color

	Facets []Facet
	Spots  []Spot

	rotation float64
	rate     float64 // rad/s, signed
	time     float64
	colorIdx int
}

var ballPalette = []colorful.Color{
	{R: 1, G: 1, B: 1},
	{R: 1, G: 0.85, B: 0.4},
	{R: 0.5, G: 0.7, B: 1},
	{R: 1, G: 0.4, B: 0.75},
}

// New distributes facets evenly around the ball. spinRPS is revolutions
// per second; its sign picks the spin direction. seed jitters the facet
// layout deterministically.
func New(center mgl.Vec3, bounds geom.Bounds, facets int, spinRPS float64, seed int64) *Model {
	if facets <= 0 {
		facets = 240
	}
	rng := rand.New(rand.NewSource(seed))
	m := &Model{
		Center: center,
		Bounds: bounds,
		Color:  ballPalette[0],
		Facets: make([]Facet, facets),
		Spots:  make([]Spot, facets),
		rate:   ballSpinSign * spinRPS * 2 * math.Pi,
	}
	// Golden-angle spiral keeps the band coverage even; a small jitter
	// breaks the visible regularity.
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range m.Facets {
		frac := (float64(i) + 0.5) / float64(facets)
		m.Facets[i] = Facet{
			ThetaOff: math.Mod(float64(i)*golden+rng.Float64()*0.05, 2*math.Pi),
			// Stay off the poles: straight-up/down rays never leave the
			// ball's mounting hardware in a believable way.
			PhiOff: math.Acos(1-2*frac)*0.8 + 0.1*math.Pi,
		}
	}
	return m
}

// Rotation returns the current ball rotation in radians.
func (m *Model) Rotation() float64 { return m.rotation }

// CycleColor steps the ball's spot color through the palette.
func (m *Model) CycleColor() colorful.Color {
	m.colorIdx = (m.colorIdx + 1) % len(ballPalette)
	m.Color = ballPalette[m.colorIdx]
	return m.Color
}

// Update advances the ball rotation and recomputes every spot. A facet
// whose ray finds no surface (degenerate corner directions) keeps its
// previous position instead of snapping anywhere.
func (m *Model) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	m.time += dt
	m.rotation = math.Mod(m.rotation+m.rate*dt, 2*math.Pi)

	for i := range m.Facets {
		f := &m.Facets[i]
		dir := geom.DirFromSpherical(m.rotation+f.ThetaOff, f.PhiOff)
		if p, s, ok := m.Bounds.IntersectRay(m.Center, dir); ok {
			m.Spots[i].Pos = p
			m.Spots[i].Surface = s
			m.Spots[i].Valid = true
		}
		m.Spots[i].Intensity = shimmerBase + math.Sin(m.time*shimmerFreq+float64(i))*shimmerAmp
	}
}
