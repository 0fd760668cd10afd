// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package station reads meteorological NMEA 0183 sentences (MDA, XDR) from a
// serial weather station and turns them into environment samples.
package station

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/envmeter/internal/env"
)

// ErrNoMeasurement is returned for sentences that carry no temperature,
// humidity or pressure reading.
var ErrNoMeasurement = errors.New("station: sentence has no environment measurement")

// MDA field positions.
const (
	mdaPressureBar = 2
	mdaAirTemp     = 4
	mdaRelativeHum = 8
)

func hasField(fields []string, i int) bool {
	return i < len(fields) && strings.TrimSpace(fields[i]) != ""
}

// ParseSentence parses one NMEA line. Quantities the sentence does not carry
// are left at env.NotSampled.
func ParseSentence(line string) (env.Sample, error) {
	sentence, err := nmea.Parse(strings.TrimSpace(line))
	if err != nil {
		return env.Sample{}, err
	}

	s := env.Sample{
		Source:      "station",
		Temperature: env.NotSampled,
		Humidity:    env.NotSampled,
		Pressure:    env.NotSampled,
	}
	switch sentence.DataType() {
	case nmea.TypeMDA:
		m := sentence.(nmea.MDA)
		// go-nmea reads empty fields as 0
		if hasField(m.Fields, mdaAirTemp) {
			s.Temperature = m.AirTemp
		}
		if hasField(m.Fields, mdaPressureBar) {
			s.Pressure = m.PressureBar * 1000 // 1 bar = 1000 hPa
		}
		if hasField(m.Fields, mdaRelativeHum) {
			s.Humidity = m.RelativeHum
		}
	case nmea.TypeXDR:
		x := sentence.(nmea.XDR)
		for _, ms := range x.Measurements {
			applyTransducer(&s, ms.TransducerType, ms.Unit, ms.Value)
		}
	default:
		return env.Sample{}, ErrNoMeasurement
	}

	if s.Temperature == env.NotSampled && s.Humidity == env.NotSampled && s.Pressure == env.NotSampled {
		return env.Sample{}, ErrNoMeasurement
	}
	return s, nil
}

func applyTransducer(s *env.Sample, kind, unit string, v float64) {
	switch kind {
	case "C":
		if unit == "C" {
			s.Temperature = v
		}
	case "H":
		if unit == "P" {
			s.Humidity = v
		}
	case "P":
		switch unit {
		case "B":
			s.Pressure = v * 1000
		case "P":
			s.Pressure = v / 100
		}
	}
}

// Reader merges sentences from a station into complete samples.
type Reader struct {
	r       *bufio.Reader
	current env.Sample
	now     func() time.Time
}

// NewReader wraps r, typically an open serial port.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r: bufio.NewReader(r),
		current: env.Sample{
			Source:      "station",
			Temperature: env.NotSampled,
			Humidity:    env.NotSampled,
			Pressure:    env.NotSampled,
		},
		now: time.Now,
	}
}

// Next blocks until a sentence updates at least one quantity and returns the
// merged sample. Lines that are not NMEA or fail to parse are skipped.
func (r *Reader) Next() (env.Sample, error) {
	for {
		line, err := r.r.ReadString('\n')
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "$") {
			if s, perr := ParseSentence(line); perr == nil {
				r.merge(s)
				return r.current, nil
			}
		}
		if err != nil {
			return env.Sample{}, fmt.Errorf("station read: %w", err)
		}
	}
}

func (r *Reader) merge(s env.Sample) {
	if s.Temperature != env.NotSampled {
		r.current.Temperature = s.Temperature
	}
	if s.Humidity != env.NotSampled {
		r.current.Humidity = s.Humidity
	}
	if s.Pressure != env.NotSampled {
		r.current.Pressure = s.Pressure
	}
	r.current.Time = r.now()
}
