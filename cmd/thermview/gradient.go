// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/maruel/thermview/gradient"
	"github.com/maruel/thermview/palette"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var gradientCmd = &cobra.Command{
	Use:   "gradient",
	Short: "Build the gradient lookup table from color stops",
	Long: `Build the gradient lookup table from color stops.

The stops come from a preset (--palette) or from the "stops" list of the
config file, each entry being {r, g, b, t} with t in °C.`,
	Args: cobra.NoArgs,
	RunE: runGradient,
}

func init() {
	gradientCmd.Flags().StringP("gradient", "o", "gradient.bin", "output file")
	gradientCmd.Flags().String("palette", "animal", "preset: "+strings.Join(palette.Names(), ", "))
	gradientCmd.Flags().Int("size", gradient.DefaultSize, "number of entries")
	rootCmd.AddCommand(gradientCmd)
}

func runGradient(cmd *cobra.Command, args []string) error {
	stops, err := palette.FromConfig(config)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true
	out := config.GetString("gradient")
	size := config.GetInt("size")
	logrus.WithFields(logrus.Fields{"path": out, "size": size, "stops": len(stops)}).Info("Writing gradient")
	for i, s := range stops {
		logrus.Debugf("stop %d: %s", i, s)
	}
	t, err := gradient.Build(stops, size)
	if err != nil {
		return err
	}
	if err := gradient.Save(out, t); err != nil {
		return err
	}
	fmt.Printf("Wrote %d colors to %s\n", t.Len(), out)
	return nil
}
