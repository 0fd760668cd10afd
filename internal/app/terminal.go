// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/display"
	"github.com/relabs-tech/envmeter/internal/env"
	"github.com/relabs-tech/envmeter/internal/poll"
	"github.com/relabs-tech/envmeter/internal/sensors"
)

// RunTerminal renders the colour dashboard in the terminal using half-block
// cells. Quit with q, Esc or Ctrl-C.
func RunTerminal() error {
	cfg := config.Get()

	dash, err := display.NewDashboard(display.LayoutTFT(cfg.MeterSegments), display.MetersFromConfig(cfg))
	if err != nil {
		return err
	}

	src, closeSrc, err := sensors.Open(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	// log output would corrupt the screen
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var resized atomic.Bool
	go pollScreenEvents(screen, cancel, &resized)

	term := display.NewTerminal(screen)
	fb := display.NewFramebuffer(dash.Layout().Width, dash.Layout().Height)

	interval := time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond
	cycle := &poll.Cycle{
		Gate:   &poll.Gate{Interval: interval},
		Source: src,
		State:  env.NewState(),
		Render: func(st *env.State) error {
			if resized.Swap(false) {
				term.Resize()
				screen.Sync()
			}
			if err := dash.Render(fb, st); err != nil {
				return err
			}
			return display.Blit(term, fb.Image())
		},
	}

	if err := cycle.Run(ctx, tickFor(interval), "terminal"); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// pollScreenEvents cancels on quit keys and flags resizes until the screen
// is finalized.
func pollScreenEvents(screen tcell.Screen, cancel context.CancelFunc, resized *atomic.Bool) {
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			resized.Store(true)
		case *tcell.EventKey:
			if isQuitKey(ev) {
				cancel()
				return
			}
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
