// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// thermview converts raw thermal recordings into colorized images.
//
// A recording (.t16) is a sequence of fixed size frames of unsigned 16 bits
// little endian samples, each in 1/64°K. Colors come from a gradient lookup
// table built once with "thermview gradient".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/maruel/interrupt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "thermview",
	Short:         "Colorize raw thermal camera recordings",
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return loadConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose mode")
	rootCmd.PersistentFlags().String("config", "", "YAML or JSON config file")
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// interruptContext returns a context canceled on Ctrl-C.
func interruptContext() (context.Context, context.CancelFunc) {
	interrupt.HandleCtrlC()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-interrupt.Channel:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\nthermview: %s.\n", err)
		os.Exit(1)
	}
}
