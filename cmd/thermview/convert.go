// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/maruel/thermview/frame"
	"github.com/maruel/thermview/gradient"
	"github.com/maruel/thermview/pipeline"
	"github.com/maruel/thermview/sink"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <magnification> <input.t16> <output dir>",
	Short: "Convert a raw thermal recording into one PNG per frame",
	Args:  cobra.ExactArgs(3),
	RunE:  runConvert,
}

func init() {
	addGeometryFlags(convertCmd.Flags())
	convertCmd.Flags().Bool("rotate", false, "rotate the images by 180°")
	convertCmd.Flags().Bool("follow", false, "wait for more frames at the end of the input, until Ctrl-C")
	convertCmd.Flags().String("mqtt-broker", "", "also publish frames to this MQTT broker, e.g. tcp://localhost:1883")
	convertCmd.Flags().String("mqtt-topic", "thermview/frames", "MQTT topic")
	rootCmd.AddCommand(convertCmd)
}

// parseMagnification validates the magnification argument.
func parseMagnification(s string) (int, error) {
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 {
		return 0, fmt.Errorf("magnification must be an integer >= 1, got %q", s)
	}
	return m, nil
}

// openInput opens the raw recording, optionally following it as it grows.
func openInput(ctx context.Context, path string, follow bool) (io.ReadCloser, error) {
	if follow {
		return frame.Follow(ctx, path)
	}
	return os.Open(path)
}

func runConvert(cmd *cobra.Command, args []string) error {
	m, err := parseMagnification(args[0])
	if err != nil {
		return err
	}
	input, outDir := args[1], args[2]
	cmd.SilenceUsage = true

	lut, err := gradient.Load(config.GetString("gradient"))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()
	follow, _ := cmd.Flags().GetBool("follow")
	in, err := openInput(ctx, input, follow)
	if err != nil {
		return err
	}
	defer in.Close()

	sinks := sink.Multi{&sink.Dir{Path: outDir}}
	if broker, _ := cmd.Flags().GetString("mqtt-broker"); broker != "" {
		topic, _ := cmd.Flags().GetString("mqtt-topic")
		s, c, err := sink.DialMQTT(broker, "thermview", topic)
		if err != nil {
			return err
		}
		defer c.Disconnect(250)
		sinks = append(sinks, s)
	}

	rotate, _ := cmd.Flags().GetBool("rotate")
	p, err := pipeline.New(in, lut, sinks, pipeline.Options{
		Width:         config.GetInt("width"),
		Height:        config.GetInt("height"),
		Magnification: m,
		Rotate180:     rotate,
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"input": input, "output": outDir, "magnification": m}).Info("Converting")
	n, err := p.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	fmt.Printf("Done: %d frames.\n", n)
	return err
}
