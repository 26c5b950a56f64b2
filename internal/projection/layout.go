// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package projection

// Component is a point of interest pinned to a bearing on the band.
// Components are never modified after they are added to a Layout.
type Component struct {
	Name  string  `json:"name"`
	Angle float64 `json:"angle"` // radians from north
	Color string  `json:"color"`
	Size  Size    `json:"size"`
}

// Placed is a component together with its band rectangle.
type Placed struct {
	Component Component
	Bounds    Rect
}

// Layout keeps components in insertion order and their band rectangles in a
// parallel slice. Bounds are recomputed for every component whenever the
// viewport changes or a component is added.
type Layout struct {
	band       Band
	viewport   Size
	components []Component
	bounds     []Rect
}

func NewLayout(band Band) *Layout {
	return &Layout{band: band}
}

func (l *Layout) Band() Band { return l.band }

func (l *Layout) Viewport() Size { return l.viewport }

func (l *Layout) Len() int { return len(l.components) }

// Append adds c and returns its index.
func (l *Layout) Append(c Component) int {
	l.components = append(l.components, c)
	l.recompute()
	return len(l.components) - 1
}

// SetViewport records a new viewport size and lays everything out again.
func (l *Layout) SetViewport(vp Size) {
	if vp == l.viewport {
		return
	}
	l.viewport = vp
	l.recompute()
}

func (l *Layout) recompute() {
	bounds := make([]Rect, len(l.components))
	for i, c := range l.components {
		bounds[i] = ComponentRect(c.Angle, l.band.Radius, c.Size, l.viewport.Height)
	}
	l.bounds = bounds
}

// Placed returns a copy of every component with its bounds.
func (l *Layout) Placed() []Placed {
	out := make([]Placed, len(l.components))
	for i, c := range l.components {
		out[i] = Placed{Component: c, Bounds: l.bounds[i]}
	}
	return out
}

// Visible returns, for a viewer facing headingDeg, the components that
// intersect the viewport with bounds relative to the viewport origin.
func (l *Layout) Visible(headingDeg float64) (Rect, []Placed) {
	view := ViewportRect(headingDeg, l.band.Radius, l.viewport)
	var out []Placed
	for i, c := range l.components {
		if !IsVisible(l.bounds[i], view) {
			continue
		}
		out = append(out, Placed{Component: c, Bounds: RelativePosition(l.bounds[i], view)})
	}
	return view, out
}
