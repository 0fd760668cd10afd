// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/envmeter/internal/config"
	"github.com/relabs-tech/envmeter/internal/env"
	"github.com/relabs-tech/envmeter/internal/gauge"
)

// Meter configures how one quantity is scaled and coloured.
type Meter struct {
	Quantity env.Quantity
	Min, Max float64
	Scheme   gauge.Scheme
}

// MetersFromConfig returns the temperature, humidity and pressure meters.
func MetersFromConfig(cfg *config.Config) []Meter {
	return []Meter{
		{Quantity: env.Temperature, Min: cfg.TempRange.Min, Max: cfg.TempRange.Max, Scheme: cfg.MeterTempScheme},
		{Quantity: env.Humidity, Min: cfg.HumidityRange.Min, Max: cfg.HumidityRange.Max, Scheme: cfg.MeterHumidityScheme},
		{Quantity: env.Pressure, Min: cfg.PressureRange.Min, Max: cfg.PressureRange.Max, Scheme: cfg.MeterPressureScheme},
	}
}

type boundRow struct {
	Row
	scale gauge.Scale
}

// ErrMeterOverflow is returned when a meter does not fit the layout width.
var ErrMeterOverflow = errors.New("meter wider than layout")

// Dashboard renders the latest sample onto a canvas using a layout.
type Dashboard struct {
	layout Layout
	rows   []boundRow
}

// NewDashboard binds each layout row to its meter. Every row needs a meter
// with a valid scheme and a non-degenerate range.
func NewDashboard(layout Layout, meters []Meter) (*Dashboard, error) {
	byQuantity := make(map[env.Quantity]Meter, len(meters))
	for _, m := range meters {
		byQuantity[m.Quantity] = m
	}

	d := &Dashboard{layout: layout}
	for _, row := range layout.Rows {
		m, ok := byQuantity[row.Quantity]
		if !ok {
			return nil, fmt.Errorf("display: no meter for %v", row.Quantity)
		}
		if !m.Scheme.Valid() {
			return nil, fmt.Errorf("display: %v meter: %w", row.Quantity, gauge.ErrUnknownScheme)
		}
		scale, err := gauge.NewScale(m.Min, m.Max, row.Meter.Segments)
		if err != nil {
			return nil, fmt.Errorf("display: %v meter: %w", row.Quantity, err)
		}
		if end := row.Meter.X + row.Meter.Extent(); end > layout.Width {
			return nil, fmt.Errorf("display: %v meter ends at x=%d: %w", row.Quantity, end, ErrMeterOverflow)
		}
		row.Meter.Scheme = m.Scheme
		d.rows = append(d.rows, boundRow{Row: row, scale: scale})
	}
	return d, nil
}

// Layout returns the layout the dashboard was built with.
func (d *Dashboard) Layout() Layout { return d.layout }

// Render clears the canvas and draws title, labels and meters.
func (d *Dashboard) Render(c Canvas, st *env.State) error {
	l := d.layout
	c.Clear(l.Background)
	if l.Title != "" {
		c.DrawText((l.Width-TextWidth(l.Title))/2, l.TitleY, l.Title, l.Foreground)
	}

	latest := st.Latest()
	for _, row := range d.rows {
		value := 0
		text := row.Label + " --"
		if st.Sampled(row.Quantity) {
			v := latest.Value(row.Quantity)
			value = row.scale.Segments(v)
			text = fmt.Sprintf("%s %s", row.Label, FormatValue(row.Quantity, v))
		}
		c.DrawText(row.LabelX, row.LabelY, text, l.Foreground)
		if err := row.Meter.Render(c, value); err != nil {
			return fmt.Errorf("%v meter: %w", row.Quantity, err)
		}
	}
	return nil
}

// FormatValue formats a reading with its unit.
func FormatValue(q env.Quantity, v float64) string {
	if q == env.Pressure {
		return fmt.Sprintf("%.0f%s", v, q.Unit())
	}
	return fmt.Sprintf("%.1f%s", v, q.Unit())
}
