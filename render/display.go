// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Fit scales src into dst keeping its aspect ratio. The unused area is
// painted black.
func Fit(dst *image.RGBA, src image.Image) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(color.Black), image.Point{}, draw.Src)
	sb := src.Bounds()
	if sb.Empty() || b.Empty() {
		return
	}
	w, h := b.Dx(), sb.Dy()*b.Dx()/sb.Dx()
	if h > b.Dy() {
		w, h = sb.Dx()*b.Dy()/sb.Dy(), b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2
	draw.BiLinear.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), src, sb, draw.Src, nil)
}
