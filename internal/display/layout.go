// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"github.com/relabs-tech/envmeter/internal/env"
	"github.com/relabs-tech/envmeter/internal/gauge"
)

// Row places one quantity: its label baseline and its meter geometry.
// Meter.Scheme is filled in by the dashboard.
type Row struct {
	Quantity env.Quantity
	Label    string
	LabelX   int
	LabelY   int
	Meter    gauge.LinearMeter
}

// Layout is the static arrangement of a panel.
type Layout struct {
	Width, Height int
	Title         string
	TitleY        int
	Rows          []Row

	Background gauge.Color565
	Foreground gauge.Color565
}

// OLEDSegments is the fixed segment count of the 128x64 layout.
const OLEDSegments = 15

// LayoutTFT arranges three meters of n segments on a 320x480 colour panel.
// The pressure meter sits at (1, 300) with 5x20 segments and a 3 pixel gap.
func LayoutTFT(n int) Layout {
	row := func(q env.Quantity, label string, y int) Row {
		return Row{
			Quantity: q,
			Label:    label,
			LabelX:   8,
			LabelY:   y - 10,
			Meter: gauge.LinearMeter{
				X: 1, Y: y,
				Width: 5, Height: 20,
				Gap:      3,
				Segments: n,
			},
		}
	}
	return Layout{
		Width:  320,
		Height: 480,
		Title:  "Environment",
		TitleY: 24,
		Rows: []Row{
			row(env.Temperature, "Temperature", 100),
			row(env.Humidity, "Humidity", 200),
			row(env.Pressure, "Pressure", 300),
		},
		Background: gauge.Black,
		Foreground: gauge.White,
	}
}

// LayoutOLED arranges three compact rows on a 128x64 monochrome panel.
func LayoutOLED() Layout {
	row := func(q env.Quantity, label string, top int) Row {
		return Row{
			Quantity: q,
			Label:    label,
			LabelX:   0,
			LabelY:   top + 10,
			Meter: gauge.LinearMeter{
				X: -6, Y: top + 12,
				Width: 6, Height: 7,
				Gap:      2,
				Segments: OLEDSegments,

				// the panel has no grey; empty segments are frames
				OutlineEmpty: true,
			},
		}
	}
	return Layout{
		Width:  128,
		Height: 64,
		Rows: []Row{
			row(env.Temperature, "T", 0),
			row(env.Humidity, "H", 21),
			row(env.Pressure, "P", 42),
		},
		Background: gauge.Black,
		Foreground: gauge.White,
	}
}
