// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package poll drives the sample-and-render cycle of the meter apps.
package poll

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/envmeter/internal/env"
)

// Gate admits one cycle per Interval. The first call to Due is always due.
type Gate struct {
	Interval time.Duration

	last   time.Time
	primed bool
}

// Due reports whether a new cycle should run at now. A due call restarts the
// interval; calls in between are skipped.
func (g *Gate) Due(now time.Time) bool {
	if g.primed && now.Sub(g.last) < g.Interval {
		return false
	}
	g.last = now
	g.primed = true
	return true
}

// Cycle samples a source into a state and renders it, once per gate interval.
// Render may be nil for loops that only sample.
type Cycle struct {
	Gate   *Gate
	Source env.Source
	State  *env.State
	Render func(*env.State) error
}

// Step runs one sample-and-render cycle if the gate is due. A failed sample
// keeps the previous reading and skips the render.
func (c *Cycle) Step(now time.Time) (bool, error) {
	if !c.Gate.Due(now) {
		return false, nil
	}
	s, err := c.Source.Next()
	if err != nil {
		return true, fmt.Errorf("sample: %w", err)
	}
	if s.Time.IsZero() {
		s.Time = now
	}
	c.State.Update(s)
	if c.Render == nil {
		return true, nil
	}
	if err := c.Render(c.State); err != nil {
		return true, fmt.Errorf("render: %w", err)
	}
	return true, nil
}

// Run calls Step on every tick until ctx is done. Step errors are logged with
// the given prefix and the loop carries on.
func (c *Cycle) Run(ctx context.Context, tick time.Duration, prefix string) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	if _, err := c.Step(time.Now()); err != nil {
		log.Printf("%s: %v", prefix, err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if _, err := c.Step(now); err != nil {
				log.Printf("%s: %v", prefix, err)
			}
		}
	}
}
