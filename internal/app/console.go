// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/view360/internal/config"
	"github.com/relabs-tech/view360/internal/orientation"
	"github.com/relabs-tech/view360/internal/render"
	"github.com/relabs-tech/view360/internal/view"
)

// ConsoleOptions controls RunConsole.
type ConsoleOptions struct {
	// Bearing pins a marker without any lookup when non-negative.
	Bearing float64
	// Snapshot, if set, receives a PNG of the last frame on exit.
	Snapshot string
	// Duration stops the run after this long; zero runs until interrupted.
	Duration time.Duration
}

// RunConsole drives a view from the mock source and prints each refresh.
func RunConsole(co ConsoleOptions) error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if co.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, co.Duration)
		defer cancel()
	}

	opts, err := viewOptions(cfg, nil)
	if err != nil {
		return err
	}
	raster := &render.Rasterizer{}
	v := view.New(opts, render.Multi{
		&render.LogSink{Interval: millis(cfg.ConsoleLogInterval), Printf: consolePrintf},
		raster,
	})

	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	if co.Bearing >= 0 {
		if err := v.Append(view.QiblaComponent(co.Bearing)); err != nil {
			return err
		}
	}
	if err := loadPOIs(cfg, v); err != nil {
		log.Printf("console: %v", err)
	}

	if err := feed(ctx, v, orientation.NewMockSource(), millis(cfg.SampleInterval)); err != nil {
		return err
	}
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if co.Snapshot != "" {
		return writeSnapshot(raster, co.Snapshot)
	}
	return nil
}

// feed applies readings from src to v every interval until ctx is done.
func feed(ctx context.Context, v *view.View, src orientation.Source, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r, err := src.Next()
			if err != nil {
				return err
			}
			if err := v.Apply(r); err != nil {
				if errors.Is(err, view.ErrStopped) {
					return nil
				}
				return err
			}
		}
	}
}

func writeSnapshot(raster *render.Rasterizer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := raster.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	log.Printf("console: snapshot written to %s", path)
	return f.Close()
}

func consolePrintf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
