// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/maruel/thermview/frame"
	"github.com/maruel/thermview/gradient"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// config holds the settings shared by all the commands. Flags override the
// config file which overrides the defaults.
var config = viper.New()

func init() {
	config.SetDefault("width", frame.DefaultWidth)
	config.SetDefault("height", frame.DefaultHeight)
	config.SetDefault("gradient", "gradient.bin")
	config.SetDefault("palette", "animal")
	config.SetDefault("size", gradient.DefaultSize)
}

// addGeometryFlags adds the flags describing the raw stream.
func addGeometryFlags(f *pflag.FlagSet) {
	f.Int("width", frame.DefaultWidth, "frame width in samples")
	f.Int("height", frame.DefaultHeight, "frame height in samples")
	f.String("gradient", "gradient.bin", "gradient lookup table file")
}

func loadConfig(cmd *cobra.Command) error {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		config.SetConfigFile(p)
		if err := config.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", p, err)
		}
	}
	for _, name := range []string{"width", "height", "gradient", "palette", "size"} {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := config.BindPFlag(name, fl); err != nil {
				return err
			}
		}
	}
	if w, h := config.GetInt("width"), config.GetInt("height"); w < 1 || h < 1 {
		return fmt.Errorf("invalid frame size %dx%d", w, h)
	}
	return nil
}
