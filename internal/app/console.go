// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/env"
	"github.com/relabs-tech/envmeter/internal/poll"
	"github.com/relabs-tech/envmeter/internal/sensors"
)

// RunConsole prints samples from the local sensor without a broker.
func RunConsole() error {
	cfg := config.Get()

	src, closeSrc, err := sensors.Open(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	interval := time.Duration(cfg.SampleInterval) * time.Millisecond
	cycle := &poll.Cycle{
		Gate:   &poll.Gate{Interval: interval},
		Source: src,
		State:  env.NewState(),
		Render: printRenderer(os.Stdout),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cycle.Run(ctx, tickFor(interval), "console"); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printRenderer(w io.Writer) func(*env.State) error {
	return func(st *env.State) error {
		_, err := fmt.Fprintln(w, formatSample("ENV", st.Latest()))
		return err
	}
}
