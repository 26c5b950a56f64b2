// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package poi loads extra points of interest to pin on the band.
package poi

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/view360/internal/angle"
	"github.com/relabs-tech/view360/internal/projection"
)

const defaultSize = 25.0

// Entry is one point of interest as written in the catalog file.
type Entry struct {
	Name       string  `yaml:"name"`
	BearingDeg float64 `yaml:"bearing_deg"`
	Color      string  `yaml:"color"`
	Size       float64 `yaml:"size"`
}

// Catalog is the file layout:
//
//	points:
//	  - name: Mount Fuji
//	    bearing_deg: 253.5
//	    color: "#ffffff"
//	    size: 20
type Catalog struct {
	Points []Entry `yaml:"points"`
}

// Load reads a catalog file.
func Load(path string) ([]projection.Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open poi file: %w", err)
	}
	defer f.Close()

	comps, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return comps, nil
}

// Decode parses a catalog and converts it to band components.
func Decode(r io.Reader) ([]projection.Component, error) {
	var cat Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode poi catalog: %w", err)
	}

	out := make([]projection.Component, 0, len(cat.Points))
	for i, e := range cat.Points {
		c, err := e.Component()
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Component validates the entry and fills in defaults.
func (e Entry) Component() (projection.Component, error) {
	if e.Name == "" {
		return projection.Component{}, errors.New("name is required")
	}
	if math.IsNaN(e.BearingDeg) || math.IsInf(e.BearingDeg, 0) || e.BearingDeg < 0 || e.BearingDeg >= 360 {
		return projection.Component{}, fmt.Errorf("%s: bearing_deg %v outside [0, 360)", e.Name, e.BearingDeg)
	}
	size := e.Size
	if size == 0 {
		size = defaultSize
	}
	if size < 0 {
		return projection.Component{}, fmt.Errorf("%s: negative size", e.Name)
	}
	color := e.Color
	if color == "" {
		color = "white"
	}
	return projection.Component{
		Name:  e.Name,
		Angle: angle.ToRadians(e.BearingDeg),
		Color: color,
		Size:  projection.Size{Width: size, Height: size},
	}, nil
}
