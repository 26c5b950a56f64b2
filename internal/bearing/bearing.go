// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package bearing supplies the direction of the Qibla, either from the
// prayer-times web API or computed locally from a GPS fix.
package bearing

import (
	"context"
	"fmt"
	"math"

	"github.com/relabs-tech/view360/internal/angle"
	"github.com/relabs-tech/view360/internal/gps"
)

// Kaaba coordinates in decimal degrees.
const (
	KaabaLatitude  = 21.422487
	KaabaLongitude = 39.826206
)

// Result is the location the bearing was computed for and the bearing
// itself in degrees clockwise from north.
type Result struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	State       string  `json:"state,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Degrees     float64 `json:"qibla_direction"`
}

func (r Result) String() string {
	return fmt.Sprintf("Latitude: %g, Longitude: %g, Country: %s, Qibla: %g",
		r.Latitude, r.Longitude, r.Country, r.Degrees)
}

// Source delivers one bearing per call.
type Source interface {
	Bearing(ctx context.Context) (Result, error)
}

// InitialBearing is the great-circle bearing from (lat1, lon1) towards
// (lat2, lon2), in degrees within [0, 360).
func InitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := angle.ToRadians(lat1)
	phi2 := angle.ToRadians(lat2)
	dLon := angle.ToRadians(lon2 - lon1)

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)
	deg := angle.ToDegrees(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// QiblaFrom is the bearing towards the Kaaba from the given position.
func QiblaFrom(lat, lon float64) float64 {
	return InitialBearing(lat, lon, KaabaLatitude, KaabaLongitude)
}

// Locator provides the current position.
type Locator interface {
	Locate(ctx context.Context) (gps.Fix, error)
}

// LocalSource computes the bearing from a GPS position without any network.
type LocalSource struct {
	Locator Locator
}

func (s LocalSource) Bearing(ctx context.Context) (Result, error) {
	fix, err := s.Locator.Locate(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("locate: %w", err)
	}
	return Result{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Degrees:   QiblaFrom(fix.Latitude, fix.Longitude),
	}, nil
}
