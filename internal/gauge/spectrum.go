// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gauge

// SpectrumSteps is the length of the cyclic hue ramp.
const SpectrumSteps = 192

// SpectrumColor maps a position on the 192-step hue cycle to a colour.
// The cycle runs red, yellow, green, cyan, blue, violet and back to red in
// six sectors of 32 steps.
func SpectrumColor(position uint8) Color565 {
	p := position % SpectrumSteps
	sector := p >> 5
	amplitude := p & 31

	var r, g, b uint8
	switch sector {
	case 0:
		r, g, b = 31, amplitude, 0
	case 1:
		r, g, b = 31-amplitude, 31, 0
	case 2:
		r, g, b = 0, 31, amplitude
	case 3:
		r, g, b = 0, 31-amplitude, 31
	case 4:
		r, g, b = amplitude, 0, 31
	case 5:
		r, g, b = 31, 0, 31-amplitude
	}
	return Pack(r, g, b)
}
