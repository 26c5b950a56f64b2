// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gps reads position fixes from an NMEA receiver.
package gps

import "fmt"

// Fix is the position accumulated from RMC and GGA sentences.
type Fix struct {
	Time       string  `json:"time"`
	Date       string  `json:"date"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	AltitudeM  float64 `json:"alt_m"` // GGA only
	Satellites int64   `json:"satellites"`
	Quality    string  `json:"quality"` // GGA fix quality, "0" is no fix
	SpeedKnots float64 `json:"speed_knots"`
	CourseDeg  float64 `json:"course_deg"`
	Validity   string  `json:"validity"` // "A" valid, "V" void
}

// Valid reports whether the receiver flagged the fix as usable.
func (f Fix) Valid() bool {
	return f.Validity == "A"
}

func (f Fix) String() string {
	return fmt.Sprintf("%.6f,%.6f (%s, %d sats)", f.Latitude, f.Longitude, f.Validity, f.Satellites)
}
