// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/view360/internal/orientation"
)

// Producer publishes readings from an orientation.Source, one topic per
// field.
type Producer struct {
	Topics   Topics
	Interval time.Duration

	publish func(topic string, payload []byte) error
}

func NewProducer(client mqtt.Client, topics Topics, interval time.Duration) *Producer {
	return &Producer{
		Topics:   topics,
		Interval: interval,
		publish: func(topic string, payload []byte) error {
			token := client.Publish(topic, 0, false, payload)
			token.Wait()
			return token.Error()
		},
	}
}

// Publish sends every field present in r.
func (p *Producer) Publish(r orientation.Reading) error {
	if r.Attitude != nil {
		if err := p.send(p.Topics.Attitude, r.Attitude); err != nil {
			return err
		}
	}
	if r.Heading != nil {
		if err := p.send(p.Topics.Heading, *r.Heading); err != nil {
			return err
		}
	}
	if r.Acceleration != nil {
		if err := p.send(p.Topics.Acceleration, r.Acceleration); err != nil {
			return err
		}
	}
	return nil
}

func (p *Producer) send(topic string, v any) error {
	if topic == "" {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	if err := p.publish(topic, payload); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Run polls src every Interval and publishes until ctx is done.
func (p *Producer) Run(ctx context.Context, src orientation.Source) error {
	interval := p.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var published int
	for {
		select {
		case <-ctx.Done():
			log.Printf("producer: stopped after %d readings", published)
			return nil
		case <-ticker.C:
			r, err := src.Next()
			if err != nil {
				log.Printf("producer: error from source: %v", err)
				continue
			}
			if err := p.Publish(r); err != nil {
				log.Printf("producer: %v", err)
				continue
			}
			published++
			if published%50 == 0 {
				log.Printf("producer: published %d readings", published)
			}
		}
	}
}
