// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/envmeter/internal/app"
	"github.com/relabs-tech/envmeter/internal/config"
)

func main() {
	configPath := flag.String("config", "./envmeter_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting envmeter OLED display")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Println("Note: I2C access usually requires root (sudo ./display)")

	if err := app.RunDisplay(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
