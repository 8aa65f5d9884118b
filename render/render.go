// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package render colorizes raw thermal frames.
//
// Each source sample is expanded into an m×m block. The block is bilinearly
// interpolated between the sample and its right, bottom and bottom-right
// neighbors, then mapped through the gradient table.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/maruel/thermview/frame"
	"github.com/maruel/thermview/gradient"
)

// Upscaler renders frames at an integer magnification.
type Upscaler struct {
	M         int  // Magnification, at least 1.
	Rotate180 bool // Rotate the output, for sensors mounted upside down.
}

// New returns an Upscaler of magnification m.
func New(m int) (*Upscaler, error) {
	if m < 1 {
		return nil, fmt.Errorf("render: magnification must be an integer >= 1, got %d", m)
	}
	return &Upscaler{M: m}, nil
}

// NewRaster returns an opaque raster able to hold a w×h frame magnified m
// times.
func NewRaster(w, h, m int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w*m, h*m))
}

// Map returns the color of the interpolated raw value v.
func Map(t gradient.Table, v float64) color.RGBA {
	r, g, b := t.RGB(int(math.Round(v)))
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Render overwrites dst with the colorized frame f.
//
// dst must be (f.W·M)×(f.H·M).
func (u *Upscaler) Render(dst *image.RGBA, f *frame.Frame, t gradient.Table) error {
	m := u.M
	ow, oh := f.W*m, f.H*m
	if b := dst.Bounds(); b.Dx() != ow || b.Dy() != oh {
		return fmt.Errorf("render: raster is %dx%d, expected %dx%d", b.Dx(), b.Dy(), ow, oh)
	}
	// With m == 1 the weights of the neighbors are all 0.
	d := 1.
	if m > 1 {
		d = float64(m - 1)
	}
	o := dst.Rect.Min
	for j := 0; j < f.H; j++ {
		for i := 0; i < f.W; i++ {
			s00 := float64(f.At16(i, j))
			s10 := float64(f.At16(i+1, j))
			s01 := float64(f.At16(i, j+1))
			s11 := float64(f.At16(i+1, j+1))
			for rj := 0; rj < m; rj++ {
				v := float64(rj) / d
				for ri := 0; ri < m; ri++ {
					w := float64(ri) / d
					raw := (1-w)*(1-v)*s00 + w*(1-v)*s10 + (1-w)*v*s01 + w*v*s11
					c := Map(t, raw)
					x, y := i*m+ri, j*m+rj
					if u.Rotate180 {
						x, y = ow-1-x, oh-1-y
					}
					p := dst.PixOffset(o.X+x, o.Y+y)
					dst.Pix[p] = c.R
					dst.Pix[p+1] = c.G
					dst.Pix[p+2] = c.B
					dst.Pix[p+3] = c.A
				}
			}
		}
	}
	return nil
}
