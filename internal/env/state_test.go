// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import "testing"

func TestNewStateIsNotSampled(t *testing.T) {
	st := NewState()
	for _, q := range []Quantity{Temperature, Humidity, Pressure} {
		if st.Sampled(q) {
			t.Fatalf("%v sampled on a fresh state", q)
		}
		if got := st.Latest().Value(q); got != NotSampled {
			t.Fatalf("%v = %v, want %v", q, got, NotSampled)
		}
	}
}

func TestUpdateOverwrites(t *testing.T) {
	st := NewState()
	st.Update(Sample{Source: "mock", Temperature: 21.5, Humidity: 40, Pressure: 1012})
	st.Update(Sample{Source: "mock", Temperature: 22.5, Humidity: 41, Pressure: 1013})

	got := st.Latest()
	if got.Temperature != 22.5 || got.Humidity != 41 || got.Pressure != 1013 {
		t.Fatalf("Latest = %+v", got)
	}
	for _, q := range []Quantity{Temperature, Humidity, Pressure} {
		if !st.Sampled(q) {
			t.Fatalf("%v not sampled after update", q)
		}
	}
}

func TestQuantityLabels(t *testing.T) {
	if Pressure.Unit() != "hPa" || Temperature.String() != "temperature" {
		t.Fatalf("unexpected labels: %q %q", Pressure.Unit(), Temperature.String())
	}
	if Quantity(7).Unit() != "" || (Sample{}).Value(Quantity(7)) != NotSampled {
		t.Fatal("unknown quantity should have no unit and NotSampled value")
	}
}
