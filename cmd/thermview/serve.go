// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/maruel/thermview/gradient"
	"github.com/maruel/thermview/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <input.t16>",
	Short: "Play a raw thermal recording in the browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func init() {
	addGeometryFlags(serveCmd.Flags())
	serveCmd.Flags().Int("port", 8010, "http port to listen on")
	serveCmd.Flags().IntP("magnification", "m", 2, "integer upscaling factor")
	serveCmd.Flags().String("display", "", "resize frames to WxH, e.g. 400x300")
	serveCmd.Flags().Float64("fps", 24, "playback rate")
	serveCmd.Flags().Bool("rotate", false, "rotate the images by 180°")
	serveCmd.Flags().Bool("follow", false, "wait for more frames at the end of the input")
	rootCmd.AddCommand(serveCmd)
}

// parseDisplay parses "WxH". An empty string means no resize.
func parseDisplay(s string) (*image.RGBA, error) {
	if s == "" {
		return nil, nil
	}
	var w, h int
	if n, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || n != 2 || w < 1 || h < 1 {
		return nil, fmt.Errorf("invalid display size %q", s)
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	m, _ := cmd.Flags().GetInt("magnification")
	if m < 1 {
		return fmt.Errorf("magnification must be an integer >= 1, got %d", m)
	}
	ds, _ := cmd.Flags().GetString("display")
	display, err := parseDisplay(ds)
	if err != nil {
		return err
	}
	fps, _ := cmd.Flags().GetFloat64("fps")
	if fps <= 0 {
		return fmt.Errorf("invalid fps %g", fps)
	}
	cmd.SilenceUsage = true

	lut, err := gradient.Load(config.GetString("gradient"))
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()
	follow, _ := cmd.Flags().GetBool("follow")
	in, err := openInput(ctx, args[0], follow)
	if err != nil {
		return err
	}
	defer in.Close()

	s := NewWebServer(display)
	rotate, _ := cmd.Flags().GetBool("rotate")
	p, err := pipeline.New(in, lut, s, pipeline.Options{
		Width:         config.GetInt("width"),
		Height:        config.GetInt("height"),
		Magnification: m,
		Rotate180:     rotate,
		Log:           logrus.WithField("input", args[0]),
	})
	if err != nil {
		return err
	}
	port, _ := cmd.Flags().GetInt("port")
	errc := make(chan error, 1)
	go func() {
		errc <- s.ListenAndServe(ctx, port)
	}()
	if err := play(ctx, p, time.Duration(float64(time.Second)/fps)); err != nil {
		cancel()
		<-errc
		return err
	}
	// Keep serving the last frame until Ctrl-C.
	return <-errc
}

// play steps the pipeline at a fixed rate until the stream is exhausted.
func play(ctx context.Context, p *pipeline.Pipeline, period time.Duration) error {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		if err := p.Step(); err != nil {
			if errors.Is(err, io.EOF) {
				logrus.WithField("frames", p.Emitted()).Info("End of recording")
				return nil
			}
			return err
		}
	}
}
