// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"context"
	"io"
	"os"

	fsnotify "gopkg.in/fsnotify.v1"
)

// Follower reads a file that is still being appended to, like a recording in
// progress.
//
// At the end of the file, Read blocks until more data is written. It returns
// io.EOF once ctx is canceled or the file is removed or renamed.
type Follower struct {
	ctx     context.Context
	f       *os.File
	watcher *fsnotify.Watcher
}

// Follow opens path for following.
func Follow(ctx context.Context, path string) (*Follower, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, err
	}
	if err = watcher.Add(path); err != nil {
		watcher.Close()
		f.Close()
		return nil, err
	}
	return &Follower{ctx: ctx, f: f, watcher: watcher}, nil
}

func (f *Follower) Read(p []byte) (int, error) {
	for {
		n, err := f.f.Read(p)
		if n != 0 || err != io.EOF {
			return n, err
		}
		select {
		case <-f.ctx.Done():
			return 0, io.EOF
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return 0, io.EOF
			}
			return 0, err
		case ev, ok := <-f.watcher.Events:
			if !ok || ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return 0, io.EOF
			}
		}
	}
}

func (f *Follower) Close() error {
	err := f.watcher.Close()
	if err2 := f.f.Close(); err == nil {
		err = err2
	}
	return err
}
