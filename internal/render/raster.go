// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/relabs-tech/view360/internal/view"
)

// maxSide caps snapshot dimensions so a bogus viewport cannot allocate
// an unbounded image.
const maxSide = 4096

var (
	// ErrNoFrame is returned before the first frame has been rendered.
	ErrNoFrame = errors.New("no frame rendered yet")

	background = color.RGBA{0, 0, 0, 255}
	textColor  = color.RGBA{255, 255, 255, 255}
	alertColor = color.RGBA{255, 64, 64, 255}

	namedColors = map[string]color.RGBA{
		"yellow": {255, 255, 0, 255},
		"red":    {255, 0, 0, 255},
		"green":  {0, 200, 0, 255},
		"blue":   {0, 96, 255, 255},
		"white":  {255, 255, 255, 255},
		"orange": {255, 165, 0, 255},
		"cyan":   {0, 255, 255, 255},
	}
)

// Rasterizer keeps the latest frame and draws it as a PNG on demand.
type Rasterizer struct {
	mu    sync.RWMutex
	frame view.Frame
	have  bool
}

// Render implements view.Sink.
func (r *Rasterizer) Render(f view.Frame) error {
	r.mu.Lock()
	r.frame = f
	r.have = true
	r.mu.Unlock()
	return nil
}

// Image draws the latest frame.
func (r *Rasterizer) Image() (*image.RGBA, error) {
	r.mu.RLock()
	f, have := r.frame, r.have
	r.mu.RUnlock()
	if !have {
		return nil, ErrNoFrame
	}
	return Draw(f), nil
}

// WritePNG encodes the latest frame to w.
func (r *Rasterizer) WritePNG(w io.Writer) error {
	img, err := r.Image()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// ServeHTTP serves the latest frame as image/png.
func (r *Rasterizer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	img, err := r.Image()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := png.Encode(w, img); err != nil {
		log.Printf("raster: png encode error: %v", err)
	}
}

// Draw renders a frame onto a new image the size of its viewport.
func Draw(f view.Frame) *image.RGBA {
	w := clampSide(f.Viewport.Width)
	h := clampSide(f.Viewport.Height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	// Blank image
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	for _, s := range f.Components {
		fillEllipse(img, s.Rect.X, s.Rect.Y, s.Rect.Width, s.Rect.Height, parseColor(s.Color))
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{textColor},
		Face: basicfont.Face7x13,
	}
	drawer.Dot = fixed.P(4, 50)
	drawer.DrawString(f.Info.Text)
	drawer.Dot = fixed.P(4, 63)
	drawer.DrawString(f.Info.Strategy + " / " + f.Info.Orientation)

	if f.Alert != nil {
		drawer.Src = &image.Uniform{alertColor}
		drawer.Dot = fixed.P(4, 13)
		drawer.DrawString(f.Alert.Title + ": " + f.Alert.Message)
	}
	return img
}

func clampSide(v float64) int {
	switch {
	case v < 1:
		return 1
	case v > maxSide:
		return maxSide
	}
	return int(v)
}

// fillEllipse paints the ellipse inscribed in the given rectangle, clipped
// to the image.
func fillEllipse(img *image.RGBA, x, y, w, h float64, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	cx, cy := x+w/2, y+h/2
	rx, ry := w/2, h/2
	b := img.Bounds()
	x0, x1 := max(int(x), b.Min.X), min(int(x+w)+1, b.Max.X)
	y0, y1 := max(int(y), b.Min.Y), min(int(y+h)+1, b.Max.Y)
	for py := y0; py < y1; py++ {
		dy := (float64(py) + 0.5 - cy) / ry
		for px := x0; px < x1; px++ {
			dx := (float64(px) + 0.5 - cx) / rx
			if dx*dx+dy*dy <= 1 {
				img.SetRGBA(px, py, c)
			}
		}
	}
}

// parseColor accepts a few CSS names and #rrggbb. Anything else is white.
func parseColor(s string) color.RGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c
	}
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
		}
	}
	return textColor
}
