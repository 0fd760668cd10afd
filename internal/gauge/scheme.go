// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gauge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScheme is returned for a colour scheme selector outside the
// defined set.
var ErrUnknownScheme = errors.New("gauge: unknown colour scheme")

// Scheme selects how filled segments are coloured.
type Scheme uint8

const (
	SchemeRed Scheme = iota
	SchemeGreen
	SchemeBlue
	SchemeBlueToRed
	SchemeGreenToRed
	SchemeRedToGreen
	SchemeRainbow
)

var schemeNames = [...]string{
	SchemeRed:        "red",
	SchemeGreen:      "green",
	SchemeBlue:       "blue",
	SchemeBlueToRed:  "blue-to-red",
	SchemeGreenToRed: "green-to-red",
	SchemeRedToGreen: "red-to-green",
	SchemeRainbow:    "rainbow",
}

// Valid reports whether s is one of the defined schemes.
func (s Scheme) Valid() bool {
	return int(s) < len(schemeNames)
}

func (s Scheme) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Scheme(%d)", uint8(s))
	}
	return schemeNames[s]
}

// ParseScheme accepts the names returned by Scheme.String, case-insensitive.
func ParseScheme(name string) (Scheme, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, sn := range schemeNames {
		if sn == n {
			return Scheme(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// SegmentColor returns the colour of filled segment b (1-based) on a meter
// of n segments.
func (s Scheme) SegmentColor(b, n int) (Color565, error) {
	switch s {
	case SchemeRed:
		return Red, nil
	case SchemeGreen:
		return Green, nil
	case SchemeBlue:
		return Blue, nil
	case SchemeBlueToRed:
		return spectrumAt(b, n, 127, 0), nil
	case SchemeGreenToRed:
		return spectrumAt(b, n, 63, 0), nil
	case SchemeRedToGreen:
		return spectrumAt(b, n, 0, 63), nil
	case SchemeRainbow:
		return spectrumAt(b, n, 0, 159), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownScheme, uint8(s))
	}
}

// spectrumAt remaps b over [0,n] onto [from,to] of the hue cycle.
func spectrumAt(b, n int, from, to float64) Color565 {
	pos := Map(float64(b), 0, float64(n), from, to)
	return SpectrumColor(uint8(int(pos)))
}
