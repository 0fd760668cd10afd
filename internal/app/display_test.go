// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"errors"
	"image"
	"strings"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/diag"
	"github.com/relabs-tech/envmeter/internal/display"
	"github.com/relabs-tech/envmeter/internal/env"
)

type fakePanel struct {
	draws int
	last  image.Image
	err   error
}

func (p *fakePanel) Bounds() image.Rectangle { return image.Rect(0, 0, 128, 64) }

func (p *fakePanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	p.draws++
	p.last = src
	return p.err
}

func oledDashboard(t *testing.T) *display.Dashboard {
	t.Helper()
	dash, err := display.NewDashboard(display.LayoutOLED(), display.MetersFromConfig(config.Defaults()))
	if err != nil {
		t.Fatal(err)
	}
	return dash
}

func TestPanelRendererDrawsFrame(t *testing.T) {
	dash := oledDashboard(t)
	p := &fakePanel{}
	surf := display.NewDisplayerSurface(display.NewMonochrome(p))
	var out bytes.Buffer

	st := env.NewState()
	st.Update(env.Sample{Source: "mock", Temperature: 22, Humidity: 45, Pressure: 1010})

	if err := panelRenderer(dash, surf, diag.New(&out))(st); err != nil {
		t.Fatal(err)
	}
	if p.draws != 1 {
		t.Fatalf("draws = %d, want 1", p.draws)
	}
	if p.last.Bounds() != image.Rect(0, 0, 128, 64) {
		t.Fatalf("frame bounds %v", p.last.Bounds())
	}
	if !strings.Contains(out.String(), "src=mock temp=22.00C") {
		t.Fatalf("diagnostics missing sample: %q", out.String())
	}
}

func TestPanelRendererShowsEmptyMeters(t *testing.T) {
	dash := oledDashboard(t)
	p := &fakePanel{}
	surf := display.NewDisplayerSurface(display.NewMonochrome(p))

	if err := panelRenderer(dash, surf, diag.Discard())(env.NewState()); err != nil {
		t.Fatal(err)
	}
	// unsampled: every segment is an outline with a dark centre
	for _, row := range dash.Layout().Rows {
		m := row.Meter
		for b := 1; b <= m.Segments; b++ {
			x := m.X + b*(m.Width+m.Gap)
			if p.last.At(x, m.Y) != image1bit.On {
				t.Fatalf("%v segment %d: outline pixel off", row.Quantity, b)
			}
			if p.last.At(x+m.Width/2, m.Y+m.Height/2) != image1bit.Off {
				t.Fatalf("%v segment %d: centre pixel on", row.Quantity, b)
			}
		}
	}
}

func TestPanelRendererReportsDrawError(t *testing.T) {
	dash := oledDashboard(t)
	boom := errors.New("i2c nack")
	p := &fakePanel{err: boom}
	surf := display.NewDisplayerSurface(display.NewMonochrome(p))
	var out bytes.Buffer

	err := panelRenderer(dash, surf, diag.New(&out))(env.NewState())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if !strings.Contains(out.String(), "i2c nack") {
		t.Fatalf("diagnostics missing error: %q", out.String())
	}
}

func TestShowSplash(t *testing.T) {
	p := &fakePanel{}
	if err := showSplash(display.NewDisplayerSurface(display.NewMonochrome(p))); err != nil {
		t.Fatal(err)
	}
	if p.draws != 1 {
		t.Fatalf("draws = %d, want 1", p.draws)
	}
}

func TestDisplaySourceSensorMock(t *testing.T) {
	cfg := config.Defaults()
	cfg.SensorSource = "mock"
	src, closeSrc, err := displaySource(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer closeSrc()
	s, err := src.Next()
	if err != nil {
		t.Fatal(err)
	}
	if s.Source != "mock" {
		t.Fatalf("source = %q, want mock", s.Source)
	}
}
