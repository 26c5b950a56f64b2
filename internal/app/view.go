// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/view360/internal/config"
	"github.com/relabs-tech/view360/internal/metrics"
	"github.com/relabs-tech/view360/internal/render"
	"github.com/relabs-tech/view360/internal/stream"
	"github.com/relabs-tech/view360/internal/view"
)

// RunView subscribes to the sensor topics, keeps the band up to date and
// serves it over HTTP and websocket until interrupted.
func RunView() error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	opts, err := viewOptions(cfg, collector)
	if err != nil {
		return err
	}

	commands := &render.ViewCommands{}
	hub := render.NewHub(commands)
	raster := &render.Rasterizer{}
	logSink := &render.LogSink{Interval: millis(cfg.ConsoleLogInterval)}

	v := view.New(opts, render.Multi{hub, raster, logSink})
	commands.View = v

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := v.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	client, err := stream.Connect(cfg.MQTTBroker, cfg.MQTTClientIDView)
	if err != nil {
		stop()
		g.Wait()
		return err
	}
	defer client.Disconnect(250)

	sub := &stream.Subscriber{Topics: topics(cfg), Target: v}
	if err := sub.Subscribe(client); err != nil {
		stop()
		g.Wait()
		return err
	}

	if err := loadPOIs(cfg, v); err != nil {
		log.Printf("view: %v", err)
	}

	g.Go(func() error {
		// A failure is already shown to the user as an alert.
		v.LoadBearing(ctx, bearingSource(cfg))
		return nil
	})

	s := &server{view: v, hub: hub, raster: raster, metrics: collector}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler:           s.routes("web"),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		log.Printf("web server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Println("view: shutting down")
	return err
}
