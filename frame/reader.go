// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Reader pulls fixed size frames from a raw stream.
type Reader struct {
	r        io.Reader
	w        int
	h        int
	buf      []byte
	frames   int
	trailing int
}

// NewReader returns a Reader of w×h frames.
func NewReader(r io.Reader, w, h int) *Reader {
	return &Reader{r: r, w: w, h: h, buf: make([]byte, 2*w*h)}
}

// Read fills f with the next frame.
//
// It returns io.EOF once the stream holds less than a complete frame. The
// incomplete chunk, if any, is discarded and f is left untouched.
func (r *Reader) Read(f *Frame) error {
	if f.W != r.w || f.H != r.h {
		return fmt.Errorf("frame: got %dx%d buffer, expected %dx%d", f.W, f.H, r.w, r.h)
	}
	n, err := io.ReadFull(r.r, r.buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		r.trailing = n
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("frame: reading frame %d: %w", r.frames+1, err)
	}
	for i := range f.Pix {
		f.Pix[i] = binary.LittleEndian.Uint16(r.buf[2*i:])
	}
	f.updateStats()
	r.frames++
	return nil
}

// Frames returns the number of complete frames read so far.
func (r *Reader) Frames() int {
	return r.frames
}

// Trailing returns the number of bytes discarded at the end of the stream.
func (r *Reader) Trailing() int {
	return r.trailing
}
