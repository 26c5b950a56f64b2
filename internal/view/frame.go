// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package view

import (
	"fmt"

	"github.com/relabs-tech/view360/internal/heading"
	"github.com/relabs-tech/view360/internal/orientation"
	"github.com/relabs-tech/view360/internal/projection"
)

// Frame is everything a sink needs to draw one refresh of the band.
type Frame struct {
	Seq        uint64           `json:"seq"`
	Stamp      int64            `json:"stamp"` // Unix ms
	Viewport   projection.Size  `json:"viewport"`
	Info       Info             `json:"info"`
	Components []Shape          `json:"components"`
	Alert      *Alert           `json:"alert,omitempty"`
	Strategies []StrategyOption `json:"strategies"`
}

// Info is the status line drawn on top of the band.
type Info struct {
	Strategy     string   `json:"strategy"`
	HeadingValid bool     `json:"heading_valid"`
	Heading      float64  `json:"heading"`
	StartX       float64  `json:"start_x"`
	EndX         float64  `json:"end_x"`
	Elevation    *float64 `json:"elevation,omitempty"`
	Pitch        *float64 `json:"pitch,omitempty"`
	Orientation  string   `json:"orientation"`
	Text         string   `json:"text"`
}

// Shape is a visible component in viewport-relative coordinates.
type Shape struct {
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Rect  projection.Rect `json:"rect"`
}

// Alert is a one-off message for the user, e.g. a failed bearing lookup.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// StrategyOption describes one entry of the strategy selector.
type StrategyOption struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Compose builds a frame from the current state. It has no side effects.
// Without a corrected heading nothing that depends on it is placed.
func Compose(s orientation.Sample, strategy heading.Strategy, layout *projection.Layout) Frame {
	vp := layout.Viewport()
	f := Frame{
		Viewport:   vp,
		Components: []Shape{},
		Strategies: strategyOptions(strategy),
	}
	f.Info.Strategy = strategy.String()
	f.Info.Orientation = s.Orientation().String()

	if e, ok := heading.ElevationDegrees(s); ok {
		f.Info.Elevation = &e
	}
	if p, ok := heading.PitchDegrees(s); ok {
		f.Info.Pitch = &p
	}

	deg, ok := heading.Corrected(s, strategy, vp)
	if ok {
		view, visible := layout.Visible(deg)
		f.Info.HeadingValid = true
		f.Info.Heading = deg
		f.Info.StartX = view.X
		f.Info.EndX = view.MaxX()
		for _, p := range visible {
			f.Components = append(f.Components, Shape{
				Name:  p.Component.Name,
				Color: p.Component.Color,
				Rect:  p.Bounds,
			})
		}
	}
	f.Info.Text = infoText(f.Info)
	return f
}

func infoText(in Info) string {
	if !in.HeadingValid {
		return fmt.Sprintf("Angle: --, Start X: --, End X: --, Elevation: %s, Pitch: %s",
			optional(in.Elevation), optional(in.Pitch))
	}
	return fmt.Sprintf("Angle: %.0f, Start X: %.0f, End X: %.0f, Elevation: %s, Pitch: %s",
		in.Heading, in.StartX, in.EndX, optional(in.Elevation), optional(in.Pitch))
}

func optional(v *float64) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf("%.0f", *v)
}

func strategyOptions(selected heading.Strategy) []StrategyOption {
	all := heading.Strategies()
	out := make([]StrategyOption, len(all))
	for i, s := range all {
		out[i] = StrategyOption{Index: i, Name: s.String(), Selected: s == selected}
	}
	return out
}
