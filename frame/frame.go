// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frame reads raw thermal frames from a byte stream.
//
// A raw stream is a sequence of fixed size frames. Each frame is W×H unsigned
// 16 bits little endian samples in row-major order. Each sample is in 1/64°K.
package frame

import (
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"math"
)

// Default sensor geometry.
const (
	DefaultWidth  = 256
	DefaultHeight = 192
)

// Frame implements image.Image. It is essentially a Gray16 but keeps the
// samples in native order.
type Frame struct {
	Pix []uint16
	W   int
	H   int
	Min uint16 // Coldest sample of the last read.
	Max uint16 // Hottest sample of the last read.
}

// New returns a zeroed frame of w×h samples.
func New(w, h int) *Frame {
	return &Frame{Pix: make([]uint16, w*h), W: w, H: h}
}

// Size returns the number of bytes a frame occupies in a raw stream.
func (f *Frame) Size() int {
	return 2 * f.W * f.H
}

func (f *Frame) ColorModel() color.Model {
	return color.Gray16Model
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.W, f.H)
}

func (f *Frame) At(x, y int) color.Color {
	return color.Gray16{Y: f.Gray16At(x, y)}
}

// Gray16At returns the sample at (x, y) without bound clamping.
func (f *Frame) Gray16At(x, y int) uint16 {
	return f.Pix[y*f.W+x]
}

// At16 returns the sample at (x, y), clamping the coordinates to the edges of
// the frame.
func (f *Frame) At16(x, y int) uint16 {
	if x < 0 {
		x = 0
	} else if x >= f.W {
		x = f.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.H {
		y = f.H - 1
	}
	return f.Pix[y*f.W+x]
}

// Sample returns the sample nearest to (x, y), clamped to the edges of the
// frame.
func (f *Frame) Sample(x, y float64) uint16 {
	return f.At16(int(math.Round(x)), int(math.Round(y)))
}

// Equal returns true if both frames hold the same samples.
func (f *Frame) Equal(r *Frame) bool {
	if f.W != r.W || f.H != r.H {
		return false
	}
	for i := range f.Pix {
		if f.Pix[i] != r.Pix[i] {
			return false
		}
	}
	return true
}

func (f *Frame) updateStats() {
	f.Max = uint16(0)
	f.Min = uint16(0xffff)
	for _, v := range f.Pix {
		if v > f.Max {
			f.Max = v
		}
		if v < f.Min {
			f.Min = v
		}
	}
}

// WriteTo encodes the frame in the raw stream format.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	b := make([]byte, f.Size())
	for i, v := range f.Pix {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	n, err := w.Write(b)
	return int64(n), err
}
