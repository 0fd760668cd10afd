// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

// State holds the most recent sample. It is owned by a single polling loop;
// every update overwrites the previous reading.
type State struct {
	latest Sample
}

// NewState returns a state with every quantity at NotSampled.
func NewState() *State {
	return &State{latest: Sample{
		Temperature: NotSampled,
		Humidity:    NotSampled,
		Pressure:    NotSampled,
	}}
}

// Update replaces the latest sample.
func (s *State) Update(sample Sample) {
	s.latest = sample
}

// Latest returns the most recent sample.
func (s *State) Latest() Sample {
	return s.latest
}

// Sampled reports whether q holds a real reading.
func (s *State) Sampled(q Quantity) bool {
	return s.latest.Value(q) != NotSampled
}
