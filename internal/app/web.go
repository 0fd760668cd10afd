// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/display"
	"github.com/relabs-tech/envmeter/internal/env"
	"github.com/relabs-tech/envmeter/internal/gauge"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RunWeb serves a live preview of the colour dashboard fed from TOPIC_ENV.
func RunWeb() error {
	cfg := config.Get()
	shared := newSharedState()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb, "web")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeEnv(client, cfg.TopicEnv, shared, "web"); err != nil {
		return err
	}

	handler, err := newWebHandler(cfg, shared, "web")
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, handler)
}

type webServer struct {
	cfg    *config.Config
	shared *sharedState
	meters []display.Meter
	layout display.Layout
}

// newWebHandler builds the HTTP routes; static files are served from dir.
func newWebHandler(cfg *config.Config, shared *sharedState, dir string) (http.Handler, error) {
	s := &webServer{
		cfg:    cfg,
		shared: shared,
		meters: display.MetersFromConfig(cfg),
		layout: display.LayoutTFT(cfg.MeterSegments),
	}
	// fail at startup rather than on the first request
	if _, err := display.NewDashboard(s.layout, s.meters); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/env", s.handleEnv)
	mux.HandleFunc("/api/frame.png", s.handleFrame)
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/", http.FileServer(http.Dir(dir)))
	return mux, nil
}

func (s *webServer) handleEnv(w http.ResponseWriter, r *http.Request) {
	st := s.shared.Snapshot()
	if !st.Sampled(env.Pressure) && !st.Sampled(env.Temperature) && !st.Sampled(env.Humidity) {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st.Latest()); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *webServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	dash, err := display.NewDashboard(s.layout, s.meters)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	frame, err := renderPNG(dash, s.shared.Snapshot())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(frame)
}

func renderPNG(dash *display.Dashboard, st *env.State) ([]byte, error) {
	l := dash.Layout()
	fb := display.NewFramebuffer(l.Width, l.Height)
	if err := dash.Render(fb, st); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, fb.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WSMessage is sent by preview clients.
type WSMessage struct {
	Action   string `json:"action"` // scheme, refresh
	Quantity string `json:"quantity,omitempty"`
	Scheme   string `json:"scheme,omitempty"`
}

// WSResponse precedes every binary PNG frame, or reports an error.
type WSResponse struct {
	Type    string      `json:"type"` // sample, error
	Sample  *env.Sample `json:"sample,omitempty"`
	Message string      `json:"message,omitempty"`
}

// previewSession is one websocket client with its own scheme overrides.
type previewSession struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	meters []display.Meter
	layout display.Layout
}

func (s *webServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	session := &previewSession{
		conn:   conn,
		meters: append([]display.Meter(nil), s.meters...),
		layout: s.layout,
	}

	updates, unsubscribe := s.shared.Subscribe()
	defer unsubscribe()

	actions := make(chan WSMessage)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(done)
		for {
			var msg WSMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("web: websocket read error: %v", err)
				}
				return
			}
			select {
			case actions <- msg:
			case <-quit:
				return
			}
		}
	}()

	if err := session.sendFrame(s.shared.Snapshot()); err != nil {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-updates:
			if err := session.sendFrame(s.shared.Snapshot()); err != nil {
				return
			}
		case msg := <-actions:
			if err := session.apply(msg); err != nil {
				session.sendError(err.Error())
				continue
			}
			if err := session.sendFrame(s.shared.Snapshot()); err != nil {
				return
			}
		}
	}
}

// apply handles a client action.
func (p *previewSession) apply(msg WSMessage) error {
	switch msg.Action {
	case "refresh":
		return nil
	case "scheme":
		scheme, err := gauge.ParseScheme(msg.Scheme)
		if err != nil {
			return err
		}
		for i := range p.meters {
			if p.meters[i].Quantity.String() == msg.Quantity {
				p.meters[i].Scheme = scheme
				return nil
			}
		}
		return fmt.Errorf("unknown quantity: %s", msg.Quantity)
	default:
		return fmt.Errorf("unknown action: %s", msg.Action)
	}
}

func (p *previewSession) sendFrame(st *env.State) error {
	dash, err := display.NewDashboard(p.layout, p.meters)
	if err != nil {
		return err
	}
	frame, err := renderPNG(dash, st)
	if err != nil {
		return err
	}
	sample := st.Latest()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.WriteJSON(WSResponse{Type: "sample", Sample: &sample}); err != nil {
		return err
	}
	return p.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (p *previewSession) sendError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.WriteJSON(WSResponse{Type: "error", Message: message}); err != nil {
		log.Printf("web: websocket write error: %v", err)
	}
}
