// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sink receives the colorized frames produced by the pipeline.
package sink

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/maruel/thermview/frame"
)

// Sink consumes one rendered frame at a time.
//
// index is 1-based. img and f are overwritten once Emit returns so they must
// not be retained.
type Sink interface {
	Emit(index int, f *frame.Frame, img *image.RGBA) error
}

// Func adapts a function to Sink.
type Func func(index int, f *frame.Frame, img *image.RGBA) error

func (s Func) Emit(index int, f *frame.Frame, img *image.RGBA) error {
	return s(index, f, img)
}

// Multi sends each frame to all the sinks, stopping at the first failure.
type Multi []Sink

func (m Multi) Emit(index int, f *frame.Frame, img *image.RGBA) error {
	for _, s := range m {
		if err := s.Emit(index, f, img); err != nil {
			return err
		}
	}
	return nil
}

// Dir writes each frame as a PNG file in a directory.
type Dir struct {
	Path string
}

// Name returns the file name used for the frame index.
func Name(index int) string {
	return fmt.Sprintf("frame_%06d.png", index)
}

func (d *Dir) Emit(index int, f *frame.Frame, img *image.RGBA) error {
	p := filepath.Join(d.Path, Name(index))
	o, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	err = png.Encode(o, img)
	if err2 := o.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return fmt.Errorf("sink: writing %s: %w", p, err)
	}
	return nil
}
