// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gradient builds the color lookup table used to colorize raw thermal
// frames.
//
// The table is indexed by the sensor's raw 16 bits code. Each raw unit is
// 1/64°K, so the index space covers 0°K to 1024°K.
package gradient

import (
	"fmt"
	"math"

	"github.com/maruel/thermview/palette"
	"periph.io/x/periph/conn/physic"
)

// DefaultSize is the number of entries needed to cover every 16 bits code.
const DefaultSize = 1 << 16

const (
	codeBits = 14      // The sensor has 14 bits of effective resolution.
	codeMask = 0x0FFFC // Drops the sub-resolution bits.
)

// Table is a flat buffer of RGB triples.
type Table []byte

// Len returns the number of colors in the table.
func (t Table) Len() int {
	return len(t) / 3
}

// RGB returns the color at index idx.
//
// idx is clamped into the table so a frame holding codes above the table's
// domain saturates to the last color instead of panicking.
func (t Table) RGB(idx int) (r, g, b uint8) {
	if idx < 0 {
		idx = 0
	} else if last := t.Len() - 1; idx > last {
		idx = last
	}
	p := 3 * idx
	return t[p], t[p+1], t[p+2]
}

// RawCode returns the raw sensor code represented by entry i of a table of
// the specified size.
//
// It mirrors how the sensor packs its 14 bits reading into a 16 bits word.
// The last entry yields 65536, one past the 16 bits range.
func RawCode(i, size int) int {
	frac := float64(i) / float64(size-1)
	return (int(math.Floor(frac*(1<<codeBits))) & codeMask) << 2
}

// CodeToTemperature converts a raw sensor code in 1/64°K into a temperature.
//
// The conversion is exact since physic.Kelvin is divisible by 64.
func CodeToTemperature(code int) physic.Temperature {
	return physic.Temperature(code) * physic.Kelvin / 64
}

// Build interpolates the color stops into a table of size entries.
func Build(stops palette.Table, size int) (Table, error) {
	if size < 2 {
		return nil, fmt.Errorf("gradient: size must be at least 2, got %d", size)
	}
	if err := stops.Validate(); err != nil {
		return nil, err
	}
	out := make(Table, 3*size)
	for i, p := 0, 0; i < size; i, p = i+1, p+3 {
		out[p], out[p+1], out[p+2] = Interpolate(stops, CodeToTemperature(RawCode(i, size)))
	}
	return out, nil
}

// Interpolate returns the color of the gradient at the temperature t.
//
// stops must not be empty.
func Interpolate(stops palette.Table, t physic.Temperature) (r, g, b uint8) {
	// The first stop hotter than t is the upper bound of the segment. When
	// there is none, the last segment is extrapolated.
	lo := len(stops) - 1
	for i := range stops {
		if t < stops[i].T {
			lo = i
			break
		}
	}
	if lo--; lo < 0 {
		lo = 0
	}
	hi := lo + 1
	if hi > len(stops)-1 {
		hi = len(stops) - 1
	}
	c0, c1 := stops[lo], stops[hi]
	f := 0.
	if lo != hi {
		if span := c1.T - c0.T; span != 0 {
			f = float64(t-c0.T) / float64(span)
		} else if t >= c1.T {
			// Hard edge.
			f = 1
		}
	}
	f = math.Min(1, math.Max(0, f))
	return mix(c0.R, c1.R, f), mix(c0.G, c1.G, f), mix(c0.B, c1.B, f)
}

func mix(a, b uint8, f float64) uint8 {
	v := math.Round(float64(a)*(1-f) + float64(b)*f)
	return uint8(math.Min(255, math.Max(0, v)))
}
