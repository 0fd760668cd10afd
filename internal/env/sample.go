// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import "time"

// NotSampled marks a quantity that has not been measured yet.
const NotSampled = -99

// Sample represents a single environmental measurement.
type Sample struct {
	Source string `json:"source"` // "bme280", "mock", "station"

	Temperature float64   `json:"temp_c"`       // °C
	Humidity    float64   `json:"humidity_pct"` // %RH
	Pressure    float64   `json:"pressure_hpa"` // hPa
	Time        time.Time `json:"time"`
}

// Source is anything that can provide samples over time: a BME280, a mock,
// a serial weather station.
type Source interface {
	Next() (Sample, error)
}

// Quantity selects one of the measured values of a Sample.
type Quantity int

const (
	Temperature Quantity = iota
	Humidity
	Pressure
)

func (q Quantity) String() string {
	switch q {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case Pressure:
		return "pressure"
	}
	return "unknown"
}

// Unit is the display unit of q.
func (q Quantity) Unit() string {
	switch q {
	case Temperature:
		return "C"
	case Humidity:
		return "%"
	case Pressure:
		return "hPa"
	}
	return ""
}

// Value returns the reading for q.
func (s Sample) Value(q Quantity) float64 {
	switch q {
	case Temperature:
		return s.Temperature
	case Humidity:
		return s.Humidity
	case Pressure:
		return s.Pressure
	}
	return NotSampled
}
