// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package diag

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/relabs-tech/envmeter/internal/env"
)

type closeBuffer struct {
	bytes.Buffer
	closed bool
}

func (c *closeBuffer) Close() error { c.closed = true; return nil }

func TestLoggerWritesLines(t *testing.T) {
	var buf closeBuffer
	l := New(&buf)
	l.Sample(env.Sample{Source: "bme280", Temperature: 21.5, Humidity: 40.25, Pressure: 1013.25})
	l.Error(errors.New("bus timeout"))

	out := buf.String()
	if !strings.Contains(out, "src=bme280 temp=21.50C hum=40.25% press=1013.25hPa") {
		t.Fatalf("sample line missing: %q", out)
	}
	if !strings.Contains(out, "error: bus timeout") {
		t.Fatalf("error line missing: %q", out)
	}
	if n := strings.Count(out, "envmeter: "); n != 2 {
		t.Fatalf("got %d prefixed lines, want 2", n)
	}
	if err := l.Close(); err != nil || !buf.closed {
		t.Fatalf("Close err=%v closed=%v", err, buf.closed)
	}
}

func TestDiscardClose(t *testing.T) {
	if err := Discard().Close(); err != nil {
		t.Fatal(err)
	}
}
