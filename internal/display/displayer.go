// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"tinygo.org/x/drivers"

	"github.com/relabs-tech/envmeter/internal/gauge"
)

// DisplayerSurface draws meters straight onto a TinyGo display driver
// (ST7789, ILI9341 and friends) without an intermediate frame.
type DisplayerSurface struct {
	dev drivers.Displayer
}

// NewDisplayerSurface wraps dev.
func NewDisplayerSurface(dev drivers.Displayer) *DisplayerSurface {
	return &DisplayerSurface{dev: dev}
}

// FillRect implements gauge.Surface, clipped to the panel.
func (s *DisplayerSurface) FillRect(x, y, width, height int, c gauge.Color565) {
	w, h := s.dev.Size()
	r := image.Rect(x, y, x+width, y+height).Intersect(image.Rect(0, 0, int(w), int(h)))
	rgba := c.RGBA8()
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			s.dev.SetPixel(int16(px), int16(py), rgba)
		}
	}
}

// Clear fills the whole panel.
func (s *DisplayerSurface) Clear(c gauge.Color565) {
	w, h := s.dev.Size()
	s.FillRect(0, 0, int(w), int(h), c)
}

// DrawText draws s with its baseline at y.
func (s *DisplayerSurface) DrawText(x, y int, str string, c gauge.Color565) {
	drawText(displayerImage{s.dev}, x, y, str, c)
}

// Flush sends the driver buffer to the panel.
func (s *DisplayerSurface) Flush() error {
	return s.dev.Display()
}

// displayerImage lets font rendering write through a driver. The driver
// cannot be read back, so At reports black.
type displayerImage struct {
	dev drivers.Displayer
}

func (d displayerImage) ColorModel() color.Model { return color.RGBAModel }

func (d displayerImage) Bounds() image.Rectangle {
	w, h := d.dev.Size()
	return image.Rect(0, 0, int(w), int(h))
}

func (d displayerImage) At(x, y int) color.Color { return color.RGBA{A: 0xFF} }

func (d displayerImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(d.Bounds()) {
		return
	}
	d.dev.SetPixel(int16(x), int16(y), color.RGBAModel.Convert(c).(color.RGBA))
}

// Blit scales img to the size of dev, copies it pixel by pixel and displays it.
func Blit(dev drivers.Displayer, img image.Image) error {
	w, h := dev.Size()
	scaled := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	for y := 0; y < int(h); y++ {
		for x := 0; x < int(w); x++ {
			dev.SetPixel(int16(x), int16(y), scaled.RGBAAt(x, y))
		}
	}
	return dev.Display()
}
