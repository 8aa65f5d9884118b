// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pipeline converts a raw thermal stream into colorized frames.
//
// Frames are read, rendered and handed to the sink strictly one at a time. The
// frame and raster buffers are allocated once and overwritten at each frame.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/maruel/thermview/frame"
	"github.com/maruel/thermview/gradient"
	"github.com/maruel/thermview/render"
	"github.com/maruel/thermview/sink"
	"github.com/sirupsen/logrus"
)

// Options controls the pipeline.
type Options struct {
	Width         int  // Sensor width in samples.
	Height        int  // Sensor height in samples.
	Magnification int  // Integer upscaling factor, at least 1.
	Rotate180     bool // Rotate the output.
	Log           logrus.FieldLogger
}

// Pipeline holds the state of one conversion run.
type Pipeline struct {
	reader  *frame.Reader
	frame   *frame.Frame
	raster  *image.RGBA
	up      *render.Upscaler
	table   gradient.Table
	sink    sink.Sink
	log     logrus.FieldLogger
	emitted int
}

// New returns a Pipeline reading frames from r.
func New(r io.Reader, t gradient.Table, s sink.Sink, opts Options) (*Pipeline, error) {
	if opts.Width < 1 || opts.Height < 1 {
		return nil, fmt.Errorf("pipeline: invalid frame size %dx%d", opts.Width, opts.Height)
	}
	if t.Len() < 2 {
		return nil, errors.New("pipeline: gradient table is too small")
	}
	up, err := render.New(opts.Magnification)
	if err != nil {
		return nil, err
	}
	up.Rotate180 = opts.Rotate180
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{
		reader: frame.NewReader(r, opts.Width, opts.Height),
		frame:  frame.New(opts.Width, opts.Height),
		raster: render.NewRaster(opts.Width, opts.Height, opts.Magnification),
		up:     up,
		table:  t,
		sink:   s,
		log:    log,
	}, nil
}

// Step processes the next frame.
//
// It returns io.EOF once the stream is exhausted.
func (p *Pipeline) Step() error {
	if err := p.reader.Read(p.frame); err != nil {
		return err
	}
	index := p.reader.Frames()
	p.log.WithFields(logrus.Fields{
		"frame": index,
		"min":   gradient.CodeToTemperature(int(p.frame.Min)),
		"max":   gradient.CodeToTemperature(int(p.frame.Max)),
	}).Infof("Processing frame %d", index)
	if err := p.up.Render(p.raster, p.frame, p.table); err != nil {
		return err
	}
	if err := p.sink.Emit(index, p.frame, p.raster); err != nil {
		return fmt.Errorf("pipeline: frame %d: %w", index, err)
	}
	p.emitted++
	return nil
}

// Emitted returns the number of frames handed to the sink.
func (p *Pipeline) Emitted() int {
	return p.emitted
}

// Run processes frames until the stream is exhausted, a frame fails or ctx is
// canceled. It returns the number of frames emitted.
//
// Exhausting the stream is not an error.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return p.emitted, err
		}
		if err := p.Step(); err != nil {
			if err != io.EOF {
				return p.emitted, err
			}
			if t := p.reader.Trailing(); t != 0 {
				p.log.WithField("bytes", t).Warn("Discarding incomplete trailing frame")
			}
			return p.emitted, nil
		}
	}
}
