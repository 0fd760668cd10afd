// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/envmeter/internal/env"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.msgs = append(p.msgs, published{topic, qos, retained, payload.([]byte)})
	return &fakeToken{err: p.err}
}

func TestPublishSampleRetainedJSON(t *testing.T) {
	p := &fakePublisher{}
	s := env.Sample{Source: "mock", Temperature: 21.5, Humidity: 40, Pressure: 1013.2, Time: time.Unix(1700000000, 0).UTC()}

	if err := publishSample(p, "envmeter/env", s); err != nil {
		t.Fatal(err)
	}
	if len(p.msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(p.msgs))
	}
	m := p.msgs[0]
	if m.topic != "envmeter/env" || !m.retained {
		t.Fatalf("topic=%q retained=%v", m.topic, m.retained)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(m.payload, &fields); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"source", "temp_c", "humidity_pct", "pressure_hpa", "time"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("payload missing %q: %s", key, m.payload)
		}
	}

	got, err := decodeSample(m.payload)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Time.Equal(s.Time) || got.Temperature != s.Temperature || got.Source != s.Source {
		t.Fatalf("decoded %+v, want %+v", got, s)
	}
}

func TestPublishSampleError(t *testing.T) {
	boom := errors.New("not connected")
	p := &fakePublisher{err: boom}
	if err := publishSample(p, "t", env.Sample{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestPublishRenderer(t *testing.T) {
	p := &fakePublisher{}
	st := env.NewState()
	st.Update(env.Sample{Source: "bme280", Temperature: 19, Humidity: 55, Pressure: 990})

	if err := publishRenderer(p, "envmeter/env")(st); err != nil {
		t.Fatal(err)
	}
	got, err := decodeSample(p.msgs[0].payload)
	if err != nil {
		t.Fatal(err)
	}
	if got.Pressure != 990 {
		t.Fatalf("pressure = %v, want 990", got.Pressure)
	}
}

func TestDecodeSampleRejectsGarbage(t *testing.T) {
	if _, err := decodeSample([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestSharedStateNextBeforeUpdate(t *testing.T) {
	shared := newSharedState()
	s, err := shared.Next()
	if err != nil {
		t.Fatal(err)
	}
	if s.Temperature != env.NotSampled || s.Humidity != env.NotSampled || s.Pressure != env.NotSampled {
		t.Fatalf("got %+v, want NotSampled values", s)
	}
}

func TestSharedStateSubscribe(t *testing.T) {
	shared := newSharedState()
	ch, cancel := shared.Subscribe()

	shared.Update(env.Sample{Source: "a", Temperature: 1})
	// buffer holds one, the second update is dropped rather than blocking
	shared.Update(env.Sample{Source: "b", Temperature: 2})

	select {
	case s := <-ch:
		if s.Source != "a" {
			t.Fatalf("got %q, want a", s.Source)
		}
	default:
		t.Fatal("no notification")
	}
	if got := shared.Snapshot().Latest().Source; got != "b" {
		t.Fatalf("snapshot source %q, want b", got)
	}

	cancel()
	shared.Update(env.Sample{Source: "c"})
	select {
	case s := <-ch:
		t.Fatalf("notified after cancel: %+v", s)
	default:
	}
}

func TestSharedStateSnapshotIsCopy(t *testing.T) {
	shared := newSharedState()
	shared.Update(env.Sample{Temperature: 10})
	snap := shared.Snapshot()
	shared.Update(env.Sample{Temperature: 20})
	if snap.Latest().Temperature != 10 {
		t.Fatal("snapshot changed after update")
	}
}

func TestTickFor(t *testing.T) {
	if got := tickFor(time.Second); got != 250*time.Millisecond {
		t.Errorf("tickFor(1s) = %v", got)
	}
	if got := tickFor(20 * time.Millisecond); got != 10*time.Millisecond {
		t.Errorf("tickFor(20ms) = %v", got)
	}
}
