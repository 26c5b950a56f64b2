// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/view360/internal/config"
	"github.com/relabs-tech/view360/internal/orientation"
	"github.com/relabs-tech/view360/internal/stream"
)

// RunSensorProducer publishes mock phone readings to MQTT so the view can
// be exercised without a device.
func RunSensorProducer() error {
	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := stream.Connect(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	p := stream.NewProducer(client, topics(cfg), millis(cfg.SampleInterval))
	log.Printf("producer: publishing every %d ms", cfg.SampleInterval)
	return p.Run(ctx, orientation.NewMockSource())
}
