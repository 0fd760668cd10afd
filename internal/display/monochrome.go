// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Panel is the drawing side of a periph display such as ssd1306.Dev.
type Panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Monochrome is a drivers.Displayer that buffers a 1 bit frame for a Panel.
// Any colour other than black lights the pixel, so DarkGrey empty segments
// stay visible on the OLED.
type Monochrome struct {
	panel Panel
	img   *image1bit.VerticalLSB
}

// NewMonochrome allocates a frame the size of p.
func NewMonochrome(p Panel) *Monochrome {
	return &Monochrome{panel: p, img: image1bit.NewVerticalLSB(p.Bounds())}
}

// Size implements drivers.Displayer.
func (m *Monochrome) Size() (int16, int16) {
	b := m.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel implements drivers.Displayer.
func (m *Monochrome) SetPixel(x, y int16, c color.RGBA) {
	bit := image1bit.Off
	if c.R|c.G|c.B != 0 {
		bit = image1bit.On
	}
	m.img.Set(int(x), int(y), bit)
}

// Display implements drivers.Displayer by drawing the frame on the panel.
func (m *Monochrome) Display() error {
	return m.panel.Draw(m.panel.Bounds(), m.img, image.Point{})
}

// Image returns the buffered frame.
func (m *Monochrome) Image() image.Image { return m.img }
