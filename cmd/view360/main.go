// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/view360/internal/app"
	"github.com/relabs-tech/view360/internal/config"
)

func main() {
	configPath := flag.String("config", "./view360_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting view360 (MQTT subscriber + web)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunView(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
