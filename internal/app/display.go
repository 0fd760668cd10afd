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

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/diag"
	"github.com/relabs-tech/envmeter/internal/display"
	"github.com/relabs-tech/envmeter/internal/env"
	"github.com/relabs-tech/envmeter/internal/gauge"
	"github.com/relabs-tech/envmeter/internal/poll"
	"github.com/relabs-tech/envmeter/internal/sensors"
)

// RunDisplay renders the meter dashboard on the SSD1306 OLED. Samples come
// from the local sensor or from MQTT depending on DISPLAY_SOURCE; the panel
// is redrawn at most once per DISPLAY_UPDATE_INTERVAL.
func RunDisplay() error {
	cfg := config.Get()

	dash, err := display.NewDashboard(display.LayoutOLED(), display.MetersFromConfig(cfg))
	if err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	log.Printf("display: %s initialized", dev)

	surf := display.NewDisplayerSurface(display.NewMonochrome(dev))
	if err := showSplash(surf); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	dl := diag.Discard()
	if cfg.DiagSerialPort != "" {
		if dl, err = diag.Open(cfg.DiagSerialPort, cfg.DiagBaudRate); err != nil {
			return err
		}
		log.Printf("display: serial diagnostics on %s", cfg.DiagSerialPort)
	}
	defer dl.Close()

	src, closeSrc, err := displaySource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	interval := time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond
	cycle := &poll.Cycle{
		Gate:   &poll.Gate{Interval: interval},
		Source: src,
		State:  env.NewState(),
		Render: panelRenderer(dash, surf, dl),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("display: starting update loop")
	if err := cycle.Run(ctx, tickFor(interval), "display"); !errors.Is(err, context.Canceled) {
		return err
	}
	log.Println("display: shutting down")
	return nil
}

// displaySource returns the sample source selected by DISPLAY_SOURCE.
func displaySource(cfg *config.Config) (env.Source, func() error, error) {
	if cfg.DisplaySource != "mqtt" {
		return sensors.Open(cfg)
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay, "display")
	if err != nil {
		return nil, nil, err
	}
	shared := newSharedState()
	if err := subscribeEnv(client, cfg.TopicEnv, shared, "display"); err != nil {
		client.Disconnect(250)
		return nil, nil, fmt.Errorf("failed to subscribe for display: %w", err)
	}
	return shared, func() error { client.Disconnect(250); return nil }, nil
}

// panelRenderer draws the dashboard through surf and flushes it to the panel.
func panelRenderer(dash *display.Dashboard, surf *display.DisplayerSurface, dl *diag.Logger) func(*env.State) error {
	return func(st *env.State) error {
		dl.Sample(st.Latest())
		if err := dash.Render(surf, st); err != nil {
			dl.Error(err)
			return err
		}
		if err := surf.Flush(); err != nil {
			dl.Error(err)
			return err
		}
		return nil
	}
}

func showSplash(surf *display.DisplayerSurface) error {
	surf.Clear(gauge.Black)
	surf.DrawText(22, 26, "Environment", gauge.White)
	surf.DrawText(36, 43, "starting", gauge.White)
	return surf.Flush()
}
