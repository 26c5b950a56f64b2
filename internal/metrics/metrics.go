// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package metrics exposes Prometheus counters and gauges for the view.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the view metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Samples          *prometheus.CounterVec
	HeadingFiltered  prometheus.Counter
	Redraws          prometheus.Counter
	RedrawsCoalesced prometheus.Counter
	RenderErrors     prometheus.Counter
	BearingFailures  prometheus.Counter

	Components        prometheus.Gauge
	VisibleComponents prometheus.Gauge
	CorrectedHeading  prometheus.Gauge
}

// NewCollector registers the view metrics against reg, defaulting to the
// global registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	c.Samples, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "view360_sensor_samples_total",
		Help: "Sensor samples applied to the view, labeled by kind (attitude, heading, acceleration).",
	}, []string{"kind"}), "view360_sensor_samples_total")
	if err != nil {
		return nil, err
	}

	counters := []struct {
		dst  *prometheus.Counter
		name string
		help string
	}{
		{&c.HeadingFiltered, "view360_heading_samples_filtered_total", "Heading samples dropped by the minimum-change filter."},
		{&c.Redraws, "view360_redraws_total", "Frames composed and handed to the sinks."},
		{&c.RedrawsCoalesced, "view360_redraws_coalesced_total", "Redraw requests folded into an in-progress draw."},
		{&c.RenderErrors, "view360_render_errors_total", "Frames a sink failed to render."},
		{&c.BearingFailures, "view360_bearing_failures_total", "Failed bearing lookups."},
	}
	for _, ct := range counters {
		got, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{Name: ct.name, Help: ct.help}), ct.name)
		if err != nil {
			return nil, err
		}
		*ct.dst = got
	}

	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&c.Components, "view360_components", "Components placed on the band."},
		{&c.VisibleComponents, "view360_visible_components", "Components intersecting the viewport in the last frame."},
		{&c.CorrectedHeading, "view360_corrected_heading_degrees", "Corrected heading of the last frame."},
	}
	for _, g := range gauges {
		got, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: g.name, Help: g.help}), g.name)
		if err != nil {
			return nil, err
		}
		*g.dst = got
	}

	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) Sample(kind string) {
	if c == nil {
		return
	}
	c.Samples.WithLabelValues(kind).Inc()
}

func (c *Collector) Filtered() {
	if c == nil {
		return
	}
	c.HeadingFiltered.Inc()
}

func (c *Collector) Redraw(visible int, headingDeg float64, headingOK bool) {
	if c == nil {
		return
	}
	c.Redraws.Inc()
	c.VisibleComponents.Set(float64(visible))
	if headingOK {
		c.CorrectedHeading.Set(headingDeg)
	}
}

func (c *Collector) Coalesced() {
	if c == nil {
		return
	}
	c.RedrawsCoalesced.Inc()
}

func (c *Collector) RenderError() {
	if c == nil {
		return
	}
	c.RenderErrors.Inc()
}

func (c *Collector) BearingFailed() {
	if c == nil {
		return
	}
	c.BearingFailures.Inc()
}

func (c *Collector) SetComponents(n int) {
	if c == nil {
		return
	}
	c.Components.Set(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
