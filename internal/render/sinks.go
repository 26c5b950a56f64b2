// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package render holds the consumers of view frames: websocket clients,
// a PNG rasterizer and the log.
package render

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/view360/internal/projection"
	"github.com/relabs-tech/view360/internal/view"
)

// Multi renders every frame into each sink in turn.
type Multi []view.Sink

func (m Multi) Render(f view.Frame) error {
	var errs []error
	for _, s := range m {
		if err := s.Render(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink prints the info line at most once per interval. Alerts are
// always printed.
type LogSink struct {
	Interval time.Duration
	Printf   func(format string, args ...any)

	mu   sync.Mutex
	last time.Time
}

func (l *LogSink) Render(f view.Frame) error {
	printf := l.Printf
	if printf == nil {
		printf = log.Printf
	}
	if f.Alert != nil {
		printf("[ALERT] %s: %s", f.Alert.Title, f.Alert.Message)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.UnixMilli(f.Stamp)
	if !l.last.IsZero() && now.Sub(l.last) < l.Interval {
		return nil
	}
	l.last = now

	printf("[VIEW] %s | %s | %s | visible=%d", f.Info.Text, f.Info.Strategy, f.Info.Orientation, len(f.Components))
	return nil
}

func projectionSize(w, h float64) projection.Size {
	return projection.Size{Width: w, Height: h}
}
