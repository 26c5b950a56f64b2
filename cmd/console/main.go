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
	bearingDeg := flag.Float64("bearing", -1, "pin a Qibla marker at this bearing (degrees); negative for none")
	snapshot := flag.String("snapshot", "", "write a PNG of the last frame to this path on exit")
	duration := flag.Duration("duration", 0, "stop after this long (0 runs until Ctrl+C)")
	flag.Parse()

	log.Println("starting view360 (mock console)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	opts := app.ConsoleOptions{Bearing: *bearingDeg, Snapshot: *snapshot, Duration: *duration}
	if err := app.RunConsole(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
