// Package led mirrors the LED wall onto real hardware: an NRZ LED strip
// driven over SPI, one pixel per wall cell in row-major order. When no
// SPI port is available the frames land on a console screen drawer
// instead, which keeps the bridge testable off the hardware.
package led

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/my-pwa-apps/vrclub/internal/ledwall"
)

const refreshKHz = 2500

// Bridge writes LED wall frames to a display.Drawer.
type Bridge struct {
	drawer display.Drawer
	rows   int
	cols   int
	img    *image.NRGBA
}

// Open initializes the host, opens the named SPI port and prepares the
// NRZ strip. An empty port name, or a port that fails to open, falls
// back to the console screen drawer.
func Open(port string, rows, cols int) (*Bridge, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid wall size %dx%d", rows, cols)
	}
	b := &Bridge{
		rows: rows,
		cols: cols,
		img:  image.NewNRGBA(image.Rect(0, 0, rows*cols, 1)),
	}

	if port == "" {
		b.drawer = screen.New(rows * cols)
		return b, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		b.drawer = screen.New(rows * cols)
		return b, nil
	}
	opts := nrzled.Opts{
		NumPixels: rows * cols,
		Channels:  3,
		Freq:      refreshKHz * physic.KiloHertz,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	b.drawer = d
	return b, nil
}

// Draw pushes the wall's current cell colors to the strip. The wall's
// base color is scaled by each cell's brightness.
func (b *Bridge) Draw(w *ledwall.Wall) error {
	if w.Rows != b.rows || w.Cols != b.cols {
		return fmt.Errorf("wall is %dx%d, bridge is %dx%d", w.Rows, w.Cols, b.rows, b.cols)
	}
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			level := w.At(row, col)
			c := colorful.Color{
				R: w.Base.R * level,
				G: w.Base.G * level,
				B: w.Base.B * level,
			}
			r, g, bb := c.Clamped().RGB255()
			b.img.SetNRGBA(row*b.cols+col, 0, color.NRGBA{R: r, G: g, B: bb, A: 255})
		}
	}
	return b.drawer.Draw(b.drawer.Bounds(), b.img, image.Point{})
}
