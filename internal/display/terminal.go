// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// Terminal is a drivers.Displayer backed by a tcell screen. Each cell shows
// two vertically stacked pixels using an upper half block.
type Terminal struct {
	screen tcell.Screen
	w, h   int
	pix    []color.RGBA
}

// NewTerminal sizes the pixel buffer to the current screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	t := &Terminal{screen: screen}
	t.Resize()
	return t
}

// Resize re-reads the screen size, dropping the buffer contents.
func (t *Terminal) Resize() {
	cols, rows := t.screen.Size()
	t.w, t.h = cols, rows*2
	t.pix = make([]color.RGBA, t.w*t.h)
}

// Size implements drivers.Displayer.
func (t *Terminal) Size() (int16, int16) {
	return int16(t.w), int16(t.h)
}

// SetPixel implements drivers.Displayer.
func (t *Terminal) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= t.w || int(y) >= t.h {
		return
	}
	t.pix[int(y)*t.w+int(x)] = c
}

// Display implements drivers.Displayer.
func (t *Terminal) Display() error {
	for row := 0; row < t.h/2; row++ {
		for col := 0; col < t.w; col++ {
			top := t.pix[(2*row)*t.w+col]
			bottom := t.pix[(2*row+1)*t.w+col]
			style := tcell.StyleDefault.
				Foreground(rgb(top)).
				Background(rgb(bottom))
			t.screen.SetContent(col, row, '▀', nil, style)
		}
	}
	t.screen.Show()
	return nil
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
