// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/relabs-tech/view360/internal/app"
	"github.com/relabs-tech/view360/internal/config"
)

func main() {
	configPath := flag.String("config", "./view360_config.txt", "path to configuration file")
	timeout := flag.Duration("timeout", 30*time.Second, "give up after this long")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunQibla(os.Stdout, *timeout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
