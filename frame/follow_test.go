// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	p := filepath.Join(t.TempDir(), "capture.t16")
	require.NoError(t, os.WriteFile(p, []byte{1, 0, 2, 0}, 0o644))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fl, err := Follow(ctx, p)
	require.NoError(t, err)
	defer fl.Close()

	r := NewReader(fl, 2, 1)
	f := New(2, 1)
	require.NoError(t, r.Read(f))
	assert.Equal(t, []uint16{1, 2}, f.Pix)

	// The recorder appends the next frame later.
	go func() {
		time.Sleep(50 * time.Millisecond)
		w, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0)
		if err != nil {
			return
		}
		w.Write([]byte{3, 0, 4, 0})
		w.Close()
	}()
	require.NoError(t, r.Read(f))
	assert.Equal(t, []uint16{3, 4}, f.Pix)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	assert.Equal(t, io.EOF, r.Read(f))
}

func TestFollow_missing(t *testing.T) {
	_, err := Follow(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
