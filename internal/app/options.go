// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/view360/internal/bearing"
	"github.com/relabs-tech/view360/internal/config"
	"github.com/relabs-tech/view360/internal/gps"
	"github.com/relabs-tech/view360/internal/heading"
	"github.com/relabs-tech/view360/internal/metrics"
	"github.com/relabs-tech/view360/internal/poi"
	"github.com/relabs-tech/view360/internal/projection"
	"github.com/relabs-tech/view360/internal/stream"
	"github.com/relabs-tech/view360/internal/view"
)

func viewOptions(cfg *config.Config, m *metrics.Collector) (view.Options, error) {
	strategy, err := heading.ParseStrategy(cfg.HeadingStrategy)
	if err != nil {
		return view.Options{}, fmt.Errorf("HEADING_STRATEGY: %w", err)
	}
	return view.Options{
		Band:             projection.DefaultBand(),
		Viewport:         projection.Size{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight},
		Strategy:         strategy,
		HeadingFilterDeg: cfg.HeadingFilterDeg,
		RelativeAttitude: cfg.RelativeAttitude,
		Metrics:          m,
	}, nil
}

func topics(cfg *config.Config) stream.Topics {
	return stream.Topics{
		Attitude:     cfg.TopicAttitude,
		Heading:      cfg.TopicHeading,
		Acceleration: cfg.TopicAcceleration,
		Strategy:     cfg.TopicStrategy,
	}
}

func bearingSource(cfg *config.Config) bearing.Source {
	if cfg.BearingSource == "gps" {
		return bearing.LocalSource{Locator: gps.SerialLocator{
			PortName: cfg.GPSSerialPort,
			BaudRate: cfg.GPSBaudRate,
		}}
	}
	return &bearing.APIClient{
		Host:     cfg.BearingAPIHost,
		Location: cfg.BearingLocation,
		APIKey:   cfg.BearingAPIKey,
	}
}

// loadPOIs appends the catalog entries, if a catalog is configured.
func loadPOIs(cfg *config.Config, v *view.View) error {
	if cfg.POIFile == "" {
		return nil
	}
	comps, err := poi.Load(cfg.POIFile)
	if err != nil {
		return err
	}
	for _, c := range comps {
		if err := v.Append(c); err != nil {
			return err
		}
	}
	log.Printf("poi: loaded %d points from %s", len(comps), cfg.POIFile)
	return nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
