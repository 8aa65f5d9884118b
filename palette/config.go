// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package palette

import (
	"fmt"

	"github.com/spf13/viper"
)

// stopConfig is the on-disk representation of a ColorStop.
type stopConfig struct {
	R int     `mapstructure:"r"`
	G int     `mapstructure:"g"`
	B int     `mapstructure:"b"`
	T float64 `mapstructure:"t"` // °C
}

// FromConfig loads the palette described by v.
//
// When the "stops" key is set, it is a list of {r, g, b, t} objects with t in
// °C. Otherwise the preset named by the "palette" key is used.
func FromConfig(v *viper.Viper) (Table, error) {
	if !v.IsSet("stops") {
		name := v.GetString("palette")
		if name == "" {
			name = "animal"
		}
		return Named(name)
	}
	var raw []stopConfig
	if err := v.UnmarshalKey("stops", &raw); err != nil {
		return nil, fmt.Errorf("palette: invalid stops: %w", err)
	}
	out := make(Table, 0, len(raw))
	for i, s := range raw {
		for _, c := range []int{s.R, s.G, s.B} {
			if c < 0 || c > 255 {
				return nil, fmt.Errorf("palette: stop %d: channel %d out of [0, 255]", i, c)
			}
		}
		out = append(out, Stop(uint8(s.R), uint8(s.G), uint8(s.B), s.T))
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
