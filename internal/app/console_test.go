// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/relabs-tech/envmeter/internal/env"
)

func TestFormatSample(t *testing.T) {
	line := formatSample("ENV", env.Sample{Source: "bme280", Temperature: 21.44, Humidity: 38, Pressure: 1012.6})
	for _, want := range []string{"[ENV]", "src=bme280", "21.4C", "38.0%", "1013hPa"} {
		if !strings.Contains(line, want) {
			t.Errorf("%q missing %q", line, want)
		}
	}
}

func TestFormatSampleUnsampled(t *testing.T) {
	line := formatSample("STN", env.NewState().Latest())
	if strings.Count(line, "--") != 3 {
		t.Fatalf("%q: want three unsampled fields", line)
	}
	if strings.Contains(line, "-99") {
		t.Fatalf("%q: sentinel leaked into output", line)
	}
}

func TestPrintRenderer(t *testing.T) {
	var buf bytes.Buffer
	st := env.NewState()
	st.Update(env.Sample{Source: "mock", Temperature: 20, Humidity: 50, Pressure: 1000})
	if err := printRenderer(&buf)(st); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\n") || !strings.Contains(buf.String(), "src=mock") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestIsQuitKey(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), true},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), false},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), false},
	}
	for _, c := range cases {
		if got := isQuitKey(c.ev); got != c.want {
			t.Errorf("isQuitKey(%s) = %v, want %v", c.ev.Name(), got, c.want)
		}
	}
}
