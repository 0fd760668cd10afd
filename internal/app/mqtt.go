// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/envmeter/internal/env"
)

// connectMQTT connects to broker and logs under prefix.
func connectMQTT(broker, clientID, prefix string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, token.Error())
	}
	log.Printf("%s: connected to MQTT broker at %s", prefix, broker)
	return client, nil
}

// publisher is the part of mqtt.Client the producers need.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// publishSample publishes s as retained JSON so late subscribers see the
// latest reading straight away.
func publishSample(p publisher, topic string, s env.Sample) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	token := p.Publish(topic, 0, true, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// decodeSample parses an MQTT payload into a sample.
func decodeSample(payload []byte) (env.Sample, error) {
	var s env.Sample
	if err := json.Unmarshal(payload, &s); err != nil {
		return env.Sample{}, err
	}
	return s, nil
}

// sharedState holds the latest sample received from MQTT for renderers
// running on other goroutines.
type sharedState struct {
	mu   sync.RWMutex
	st   *env.State
	subs map[chan env.Sample]struct{}
}

func newSharedState() *sharedState {
	return &sharedState{
		st:   env.NewState(),
		subs: make(map[chan env.Sample]struct{}),
	}
}

// Update stores s and notifies subscribers. Slow subscribers miss samples
// rather than block the MQTT callback.
func (s *sharedState) Update(sample env.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Update(sample)
	for ch := range s.subs {
		select {
		case ch <- sample:
		default:
		}
	}
}

// Snapshot returns a copy of the state.
func (s *sharedState) Snapshot() *env.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := env.NewState()
	cp.Update(s.st.Latest())
	return cp
}

// Next implements env.Source by returning the latest received sample,
// NotSampled until the first message arrives.
func (s *sharedState) Next() (env.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Latest(), nil
}

// Subscribe registers a channel receiving every update.
func (s *sharedState) Subscribe() (<-chan env.Sample, func()) {
	ch := make(chan env.Sample, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}

// subscribeEnv feeds samples on topic into shared.
func subscribeEnv(client mqtt.Client, topic string, shared *sharedState, prefix string) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		s, err := decodeSample(msg.Payload())
		if err != nil {
			log.Printf("%s: %s unmarshal error: %v", prefix, topic, err)
			return
		}
		shared.Update(s)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("%s: subscribed to %s", prefix, topic)
	return nil
}
