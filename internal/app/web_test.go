// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/display"
	"github.com/relabs-tech/envmeter/internal/env"
	"github.com/relabs-tech/envmeter/internal/gauge"
)

func newTestServer(t *testing.T) (*httptest.Server, *sharedState) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>envmeter</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	shared := newSharedState()
	handler, err := newWebHandler(config.Defaults(), shared, dir)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, shared
}

func TestNewWebHandlerRejectsBadScheme(t *testing.T) {
	cfg := config.Defaults()
	cfg.MeterTempScheme = gauge.Scheme(42)
	if _, err := newWebHandler(cfg, newSharedState(), t.TempDir()); err == nil {
		t.Fatal("expected error for invalid scheme")
	}
}

func TestEnvEndpoint(t *testing.T) {
	srv, shared := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/env")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status before data = %d, want 503", resp.StatusCode)
	}

	shared.Update(env.Sample{Source: "mock", Temperature: 23.5, Humidity: 41, Pressure: 1008})

	resp, err = http.Get(srv.URL + "/api/env")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var s env.Sample
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatal(err)
	}
	if s.Temperature != 23.5 || s.Source != "mock" {
		t.Fatalf("got %+v", s)
	}
}

func TestFrameEndpoint(t *testing.T) {
	srv, shared := newTestServer(t)
	shared.Update(env.Sample{Source: "mock", Temperature: 20, Humidity: 50, Pressure: 1000})

	resp, err := http.Get(srv.URL + "/api/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 480 {
		t.Fatalf("frame size %v, want 320x480", b)
	}
}

func TestStaticFiles(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "envmeter") {
		t.Fatalf("index not served: %q", buf.String())
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) WSResponse {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp WSResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "sample" {
		t.Fatalf("got %+v, want sample", resp)
	}
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type %d, want binary", kind)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("frame is not a PNG: %v", err)
	}
	return resp
}

func TestWebSocketStream(t *testing.T) {
	srv, shared := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	first := readFrame(t, conn)
	if first.Sample.Temperature != env.NotSampled {
		t.Fatalf("initial temperature %v, want NotSampled", first.Sample.Temperature)
	}

	shared.Update(env.Sample{Source: "mock", Temperature: 25})
	if got := readFrame(t, conn); got.Sample.Temperature != 25 {
		t.Fatalf("pushed temperature %v, want 25", got.Sample.Temperature)
	}

	// unknown schemes are reported, not replaced by a default
	if err := conn.WriteJSON(WSMessage{Action: "scheme", Quantity: "temperature", Scheme: "plaid"}); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp WSResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Message, "unknown colour scheme") {
		t.Fatalf("got %+v, want unknown scheme error", resp)
	}

	if err := conn.WriteJSON(WSMessage{Action: "scheme", Quantity: "temperature", Scheme: "green"}); err != nil {
		t.Fatal(err)
	}
	readFrame(t, conn)
}

func TestPreviewSessionApply(t *testing.T) {
	p := &previewSession{meters: []display.Meter{{Quantity: env.Humidity, Scheme: gauge.SchemeRainbow}}}
	if err := p.apply(WSMessage{Action: "scheme", Quantity: "humidity", Scheme: "blue"}); err != nil {
		t.Fatal(err)
	}
	if p.meters[0].Scheme != gauge.SchemeBlue {
		t.Fatalf("scheme = %v, want blue", p.meters[0].Scheme)
	}
	if err := p.apply(WSMessage{Action: "scheme", Quantity: "wind", Scheme: "blue"}); err == nil {
		t.Fatal("expected error for unknown quantity")
	}
	if err := p.apply(WSMessage{Action: "dance"}); err == nil {
		t.Fatal("expected error for unknown action")
	}
	if err := p.apply(WSMessage{Action: "refresh"}); err != nil {
		t.Fatal(err)
	}
}
