// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package projection lays angles out on a horizontal band wrapped around the
// viewer (a cylinder of fixed circumference) and answers which parts of it
// the viewport currently shows.
package projection

import (
	"math"

	"github.com/relabs-tech/view360/internal/angle"
)

// Circumference of the band in pixel units.
const Circumference = 1000.0

// Size is a width/height pair in pixel units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle; X/Y is the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Band is the fixed-radius cylinder every conversion uses.
type Band struct {
	Radius float64
}

// NewBand returns the band for the given circumference.
func NewBand(circumference float64) Band {
	return Band{Radius: circumference / (2 * math.Pi)}
}

// DefaultBand is the band with Circumference.
func DefaultBand() Band {
	return NewBand(Circumference)
}

func (b Band) Circumference() float64 {
	return 2 * math.Pi * b.Radius
}

// PixelOffset is the arc length for rad on a cylinder of radius.
func PixelOffset(rad, radius float64) float64 {
	return rad * radius
}

// ViewportRect is the slice of the band the viewer faces at headingDeg.
// Offsets are not wrapped: a heading of 370° lies past the end of the band.
func ViewportRect(headingDeg, radius float64, viewport Size) Rect {
	return Rect{
		X:      PixelOffset(angle.ToRadians(headingDeg), radius),
		Y:      0,
		Width:  viewport.Width,
		Height: viewport.Height,
	}
}

// ComponentRect centres a component of the given size on its bearing and
// vertically within the viewport.
func ComponentRect(rad, radius float64, size Size, viewportHeight float64) Rect {
	return Rect{
		X:      PixelOffset(rad, radius) - size.Width/2,
		Y:      viewportHeight/2 - size.Height/2,
		Width:  size.Width,
		Height: size.Height,
	}
}

// IsVisible reports whether the half-open rectangles [X, MaxX) x [Y, MaxY)
// of the component and viewport overlap. Empty rectangles never overlap.
func IsVisible(component, viewport Rect) bool {
	if component.Width <= 0 || component.Height <= 0 || viewport.Width <= 0 || viewport.Height <= 0 {
		return false
	}
	return component.X < viewport.MaxX() && viewport.X < component.MaxX() &&
		component.Y < viewport.MaxY() && viewport.Y < component.MaxY()
}

// RelativePosition moves a component rect into viewport-relative
// coordinates, independent of how far the band has scrolled.
func RelativePosition(component, viewport Rect) Rect {
	component.X -= viewport.X
	return component
}
