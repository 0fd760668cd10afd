// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/envmeter/internal/env"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock environment source that generates smoothly
// changing readings around indoor conditions.
func NewMockSource() env.Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) Next() (env.Sample, error) {
	now := m.now()
	elapsed := now.Sub(m.start).Seconds()

	return env.Sample{
		Source:      "mock",
		Temperature: 22 + 8*math.Sin(elapsed/10),
		Humidity:    45 + 30*math.Cos(elapsed/7),
		Pressure:    1013 + 60*math.Sin(elapsed/13),
		Time:        now,
	}, nil
}
