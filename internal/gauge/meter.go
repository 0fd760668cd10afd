// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gauge

// Surface is the drawing collaborator a meter renders onto.
type Surface interface {
	FillRect(x, y, width, height int, c Color565)
}

// LinearMeter is a row of Segments rectangles laid out left to right.
// Segment b (1-based) sits at X + b*(Width+Gap).
type LinearMeter struct {
	X, Y          int
	Width, Height int
	Gap           int
	Segments      int
	Scheme        Scheme

	// OutlineEmpty draws empty segments as a one pixel DarkGrey frame
	// instead of a solid block, for panels that cannot show grey.
	OutlineEmpty bool
}

// Render draws the meter with value segments filled. value <= 0 leaves every
// segment empty; value >= Segments fills them all. An invalid scheme is
// reported before anything is drawn.
func (m LinearMeter) Render(s Surface, value int) error {
	colors, err := m.colors(value)
	if err != nil {
		return err
	}
	for i, c := range colors {
		x := m.X + (i+1)*(m.Width+m.Gap)
		if m.OutlineEmpty && (value <= 0 || i+1 > value) {
			outline(s, x, m.Y, m.Width, m.Height, c)
			continue
		}
		s.FillRect(x, m.Y, m.Width, m.Height, c)
	}
	return nil
}

// colors resolves the colour of every segment for value, DarkGrey for empty
// ones. Every segment goes through the scheme so an invalid scheme fails
// whatever the value.
func (m LinearMeter) colors(value int) ([]Color565, error) {
	colors := make([]Color565, m.Segments)
	for b := 1; b <= m.Segments; b++ {
		c, err := m.Scheme.SegmentColor(b, m.Segments)
		if err != nil {
			return nil, err
		}
		if value <= 0 || b > value {
			c = DarkGrey
		}
		colors[b-1] = c
	}
	return colors, nil
}

func outline(s Surface, x, y, width, height int, c Color565) {
	if width <= 2 || height <= 2 {
		s.FillRect(x, y, width, height, c)
		return
	}
	s.FillRect(x, y, width, 1, c)
	s.FillRect(x, y+height-1, width, 1, c)
	s.FillRect(x, y+1, 1, height-2, c)
	s.FillRect(x+width-1, y+1, 1, height-2, c)
}

// RenderLinearMeter is the positional form of LinearMeter.Render.
func RenderLinearMeter(s Surface, value, x, y, width, height, gap, n int, scheme Scheme) error {
	return LinearMeter{
		X: x, Y: y,
		Width: width, Height: height,
		Gap:      gap,
		Segments: n,
		Scheme:   scheme,
	}.Render(s, value)
}

// Extent returns the width in pixels covered by the meter, measured from X.
func (m LinearMeter) Extent() int {
	return (m.Segments+1)*(m.Width+m.Gap) - m.Gap
}
