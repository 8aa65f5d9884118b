// Copyright 2015 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thermaltest generates synthetic raw thermal streams.
package thermaltest

import (
	"io"
	"math/rand"

	"github.com/maruel/thermview/frame"
	"github.com/maruel/thermview/palette"
	"periph.io/x/periph/conn/physic"
)

// Fake is a fake thermal sensor. The scene is a background with a few warm
// and cold blobs slowly drifting around.
type Fake struct {
	W          int
	H          int
	Background physic.Temperature
	noise      *noise
}

// New returns a fake sensor of w×h samples with a 20°C background.
//
// The output is deterministic.
func New(w, h int) *Fake {
	return &Fake{W: w, H: h, Background: palette.FromCelsius(20), noise: makeNoise(w, h)}
}

// NextFrame renders the next frame into f.
func (l *Fake) NextFrame(f *frame.Frame) {
	l.noise.update()
	l.noise.render(f, Code(l.Background))
}

// Write writes n frames in the raw stream format.
func (l *Fake) Write(w io.Writer, n int) error {
	f := frame.New(l.W, l.H)
	for i := 0; i < n; i++ {
		l.NextFrame(f)
		if _, err := f.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// Code converts a temperature into a raw sensor code in 1/64°K.
func Code(t physic.Temperature) uint16 {
	return uint16((t*64 + physic.Kelvin/2) / physic.Kelvin)
}

// Uniform returns a frame where every sample is v.
func Uniform(w, h int, v uint16) *frame.Frame {
	f := frame.New(w, h)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

//

type vector struct {
	intensity float64
	x         float64
	y         float64
}

// noise is cheezy but gets us going for testing without a device.
type noise struct {
	rand    *rand.Rand
	vectors []vector
}

func makeNoise(w, h int) *noise {
	n := &noise{rand: rand.New(rand.NewSource(0))}
	n.vectors = make([]vector, 10)
	for i := range n.vectors {
		// Up to ~±20°K at the center of a blob.
		n.vectors[i].intensity = n.rand.NormFloat64() * 1280
		n.vectors[i].x = n.rand.NormFloat64()*float64(w)/6 + float64(w)/2
		n.vectors[i].y = n.rand.NormFloat64()*float64(h)/6 + float64(h)/2
	}
	return n
}

func (n *noise) update() {
	for i := range n.vectors {
		n.vectors[i].intensity += n.rand.NormFloat64() * 10
		n.vectors[i].x += n.rand.NormFloat64() * 0.5
		n.vectors[i].y += n.rand.NormFloat64() * 0.5
	}
}

func (n *noise) render(f *frame.Frame, base uint16) {
	// Clamp to ±40°K around the background.
	dynamicRange := float64(40 * 64)
	lo, hi := float64(base)-dynamicRange, float64(base)+dynamicRange
	for y := 0; y < f.H; y++ {
		fy := float64(y)
		for x := 0; x < f.W; x++ {
			fx := float64(x)
			value := float64(base)
			for _, vect := range n.vectors {
				distance := 1 + ((vect.x-fx)*(vect.x-fx)+(vect.y-fy)*(vect.y-fy))/16
				value += vect.intensity / distance
			}
			if value > hi {
				value = hi
			}
			if value < lo {
				value = lo
			}
			f.Pix[y*f.W+x] = uint16(value)
		}
	}
}
