// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package palette defines the color stops a thermal gradient is interpolated
// from.
//
// A stop binds a temperature threshold to a color. Between two consecutive
// stops the gradient is linear; below the first stop and above the last one
// the terminal color is reused.
package palette

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"periph.io/x/periph/conn/physic"
)

// ColorStop is one anchor point of a gradient.
type ColorStop struct {
	R, G, B uint8
	T       physic.Temperature // Threshold.
}

// Stop returns a ColorStop with its threshold expressed in °C.
func Stop(r, g, b uint8, celsius float64) ColorStop {
	return ColorStop{R: r, G: g, B: b, T: FromCelsius(celsius)}
}

// Celsius returns the threshold in °C.
func (c ColorStop) Celsius() float64 {
	return float64(c.T-physic.ZeroCelsius) / float64(physic.Celsius)
}

func (c ColorStop) String() string {
	return fmt.Sprintf("#%02x%02x%02x@%s", c.R, c.G, c.B, c.T)
}

// FromCelsius converts a temperature in °C into a physic.Temperature.
func FromCelsius(celsius float64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(math.Round(celsius*float64(physic.Celsius)))
}

// Table is an ordered list of color stops.
type Table []ColorStop

// Validate returns an error if the table is empty or if thresholds are not
// non-decreasing.
//
// Equal consecutive thresholds are accepted; they form a hard edge in the
// gradient.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errors.New("palette: no color stops")
	}
	for i := 1; i < len(t); i++ {
		if t[i].T < t[i-1].T {
			return fmt.Errorf("palette: stop %d (%s) is colder than stop %d (%s)", i, t[i].T, i-1, t[i-1].T)
		}
	}
	return nil
}

// Animal is tuned for living beings, 10°C to 150°C.
var Animal = Table{
	Stop(0, 0, 0, 10),
	Stop(0, 0, 255, 15),
	Stop(0, 255, 255, 20),
	Stop(0, 255, 0, 25),
	Stop(255, 255, 0, 30),
	Stop(255, 128, 0, 35),
	Stop(255, 0, 0, 40),
	Stop(255, 0, 255, 100),
	Stop(255, 255, 255, 150),
}

// Ice spreads most of the colors around the freezing point.
var Ice = Table{
	Stop(0, 0, 0, -10),
	Stop(0, 0, 255, -7),
	Stop(0, 255, 255, -4),
	Stop(0, 255, 0, -1),
	Stop(255, 255, 0, 0),
	Stop(255, 128, 0, 10),
	Stop(255, 0, 0, 20),
	Stop(255, 0, 255, 50),
	Stop(255, 255, 255, 150),
}

// Printer covers the range of a FDM 3D printer hot end.
var Printer = Table{
	Stop(0, 0, 0, 10),
	Stop(0, 0, 255, 15),
	Stop(0, 255, 255, 20),
	Stop(0, 255, 0, 25),
	Stop(255, 255, 0, 30),
	Stop(255, 128, 0, 35),
	Stop(255, 0, 0, 150),
	Stop(255, 0, 255, 220),
	Stop(255, 255, 255, 240),
}

var presets = map[string]Table{
	"animal":  Animal,
	"ice":     Ice,
	"printer": Printer,
}

// Named returns a preset by name.
func Named(name string) (Table, error) {
	t, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("palette: unknown palette %q; valid values are %s", name, Names())
	}
	return t, nil
}

// Names returns the sorted list of preset names.
func Names() []string {
	out := make([]string, 0, len(presets))
	for k := range presets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
