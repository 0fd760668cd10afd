// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package display composes meter dashboards and pushes them to panels:
// an SSD1306 OLED, TinyGo displayers, the terminal and the web preview.
package display

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/relabs-tech/envmeter/internal/gauge"
)

// Canvas is what a dashboard draws on.
type Canvas interface {
	gauge.Surface
	Clear(c gauge.Color565)
	DrawText(x, y int, s string, c gauge.Color565)
}

// Framebuffer is an in-memory RGBA frame.
type Framebuffer struct {
	img *image.RGBA
}

// NewFramebuffer allocates a width x height frame.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image exposes the frame for encoders and panel drivers.
func (f *Framebuffer) Image() *image.RGBA { return f.img }

// Bounds returns the frame rectangle.
func (f *Framebuffer) Bounds() image.Rectangle { return f.img.Bounds() }

// At returns the pixel at (x, y).
func (f *Framebuffer) At(x, y int) color.RGBA { return f.img.RGBAAt(x, y) }

// FillRect implements gauge.Surface. Rectangles are clipped to the frame.
func (f *Framebuffer) FillRect(x, y, width, height int, c gauge.Color565) {
	r := image.Rect(x, y, x+width, y+height)
	draw.Draw(f.img, r, image.NewUniform(c.RGBA8()), image.Point{}, draw.Src)
}

// Clear fills the whole frame.
func (f *Framebuffer) Clear(c gauge.Color565) {
	draw.Draw(f.img, f.img.Bounds(), image.NewUniform(c.RGBA8()), image.Point{}, draw.Src)
}

// DrawText draws s with its baseline at y.
func (f *Framebuffer) DrawText(x, y int, s string, c gauge.Color565) {
	drawText(f.img, x, y, s, c)
}

func drawText(dst draw.Image, x, y int, s string, c gauge.Color565) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c.RGBA8()),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(s)
}

// TextWidth is the advance of s in the dashboard font.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}
