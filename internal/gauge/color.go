// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gauge renders scalar measurements as linear segmented meters on
// 16-bit colour raster surfaces.
package gauge

import "image/color"

// Color565 is a packed 16-bit colour: 5 bits red, 6 bits green, 5 bits blue.
type Color565 uint16

// Fixed colours used by the meters.
const (
	Red      Color565 = 0xF800
	Green    Color565 = 0x07E0
	Blue     Color565 = 0x001F
	DarkGrey Color565 = 0x7BEF // empty segment
	Black    Color565 = 0x0000
	White    Color565 = 0xFFFF
)

// Pack assembles 5-bit red, green and blue channels into a Color565.
// Green only uses the top 5 bits of its 6-bit field.
func Pack(r, g, b uint8) Color565 {
	return Color565(uint16(r&0x1F)<<11 | uint16(g&0x1F)<<6 | uint16(b&0x1F))
}

// Channels returns the raw 5/6/5 bit fields.
func (c Color565) Channels() (r, g, b uint8) {
	return uint8(c>>11) & 0x1F, uint8(c>>5) & 0x3F, uint8(c) & 0x1F
}

// RGBA8 expands the packed colour to 8 bits per channel.
func (c Color565) RGBA8() color.RGBA {
	r, g, b := c.Channels()
	return color.RGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}

// RGBA implements color.Color.
func (c Color565) RGBA() (r, g, b, a uint32) {
	return c.RGBA8().RGBA()
}
