// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package stream carries sensor readings and UI commands over MQTT.
package stream

import (
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Topics names the MQTT topics used for each kind of message.
type Topics struct {
	Attitude     string
	Heading      string
	Acceleration string
	Strategy     string
}

// DefaultTopics are used when nothing is configured.
var DefaultTopics = Topics{
	Attitude:     "view360/attitude",
	Heading:      "view360/heading",
	Acceleration: "view360/acceleration",
	Strategy:     "view360/strategy",
}

// Connect opens a client to broker and waits for the connection.
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("stream: connection to %s lost: %v", broker, err)
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, token.Error())
	}
	log.Printf("stream: connected to MQTT broker at %s as %s", broker, clientID)
	return client, nil
}
