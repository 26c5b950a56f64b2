// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package view

import (
	"context"
	"log"

	"github.com/relabs-tech/view360/internal/angle"
	"github.com/relabs-tech/view360/internal/bearing"
	"github.com/relabs-tech/view360/internal/projection"
)

// QiblaComponent is the marker placed at the fetched bearing.
func QiblaComponent(deg float64) projection.Component {
	return projection.Component{
		Name:  "Qibla",
		Angle: angle.ToRadians(deg),
		Color: "yellow",
		Size:  projection.Size{Width: 25, Height: 25},
	}
}

// LoadBearing asks src for the bearing once. On success the marker is
// appended; on failure the error is shown to the user as an alert. There
// is no retry.
func (v *View) LoadBearing(ctx context.Context, src bearing.Source) (bearing.Result, error) {
	res, err := src.Bearing(ctx)
	if err != nil {
		v.opts.Metrics.BearingFailed()
		log.Printf("view: bearing lookup failed: %v", err)
		if aerr := v.ShowAlert("Alert", err.Error()); aerr != nil {
			log.Printf("view: could not show alert: %v", aerr)
		}
		return bearing.Result{}, err
	}
	log.Printf("view: bearing loaded: %v", res)
	if err := v.Append(QiblaComponent(res.Degrees)); err != nil {
		return res, err
	}
	return res, nil
}
