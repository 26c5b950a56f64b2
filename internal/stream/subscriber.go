// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/view360/internal/heading"
	"github.com/relabs-tech/view360/internal/orientation"
)

// Target receives decoded messages. *view.View implements it.
type Target interface {
	SetAttitude(orientation.Attitude) error
	SetHeading(float64) error
	SetAcceleration(orientation.Vector3) error
	ClearAttitude() error
	ClearHeading() error
	ClearAcceleration() error
	SetStrategy(heading.Strategy) error
}

// Subscriber decodes JSON payloads and forwards them to a Target. A
// payload of null means the sensor had nothing to report.
type Subscriber struct {
	Topics Topics
	Target Target
}

// Subscribe registers a handler for every configured topic.
func (s *Subscriber) Subscribe(client mqtt.Client) error {
	for _, topic := range s.topicList() {
		token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			if err := s.Handle(msg.Topic(), msg.Payload()); err != nil {
				log.Printf("stream: %s: %v", msg.Topic(), err)
			}
		})
		token.Wait()
		if token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
		log.Printf("stream: subscribed to %s", topic)
	}
	return nil
}

func (s *Subscriber) topicList() []string {
	var out []string
	for _, t := range []string{s.Topics.Attitude, s.Topics.Heading, s.Topics.Acceleration, s.Topics.Strategy} {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Handle applies one message.
func (s *Subscriber) Handle(topic string, payload []byte) error {
	payload = bytes.TrimSpace(payload)
	null := bytes.Equal(payload, []byte("null"))

	switch topic {
	case s.Topics.Attitude:
		if null {
			return s.Target.ClearAttitude()
		}
		var a orientation.Attitude
		if err := json.Unmarshal(payload, &a); err != nil {
			return fmt.Errorf("attitude unmarshal error: %w", err)
		}
		if a.Quaternion == (orientation.Quaternion{}) {
			// Euler-only producers
			a = orientation.AttitudeFromEuler(a.Pitch, a.Roll, a.Yaw)
		}
		return s.Target.SetAttitude(a)

	case s.Topics.Heading:
		if null {
			return s.Target.ClearHeading()
		}
		var h float64
		if err := json.Unmarshal(payload, &h); err != nil {
			return fmt.Errorf("heading unmarshal error: %w", err)
		}
		return s.Target.SetHeading(h)

	case s.Topics.Acceleration:
		if null {
			return s.Target.ClearAcceleration()
		}
		var v orientation.Vector3
		if err := json.Unmarshal(payload, &v); err != nil {
			return fmt.Errorf("acceleration unmarshal error: %w", err)
		}
		return s.Target.SetAcceleration(v)

	case s.Topics.Strategy:
		// Either a bare index/name or a JSON string.
		st, err := heading.ParseStrategy(strings.Trim(string(payload), `"`))
		if err != nil {
			return err
		}
		return s.Target.SetStrategy(st)
	}
	return fmt.Errorf("unexpected topic %q", topic)
}
