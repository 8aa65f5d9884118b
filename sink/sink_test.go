// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/maruel/thermview/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:], []uint8{10, 20, 30, 255})
	}
	return img
}

func TestName(t *testing.T) {
	assert.Equal(t, "frame_000001.png", Name(1))
	assert.Equal(t, "frame_123456.png", Name(123456))
}

func TestDir(t *testing.T) {
	d := &Dir{Path: t.TempDir()}
	require.NoError(t, d.Emit(7, frame.New(1, 1), testImage()))
	f, err := os.Open(filepath.Join(d.Path, "frame_000007.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{10, 20, 30, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestDir_fail(t *testing.T) {
	d := &Dir{Path: filepath.Join(t.TempDir(), "missing")}
	assert.Error(t, d.Emit(1, frame.New(1, 1), testImage()))
}

func TestMulti(t *testing.T) {
	var calls []int
	ok := Func(func(index int, f *frame.Frame, img *image.RGBA) error {
		calls = append(calls, index)
		return nil
	})
	fail := Func(func(index int, f *frame.Frame, img *image.RGBA) error {
		return errors.New("full")
	})
	assert.NoError(t, Multi{ok, ok}.Emit(3, nil, nil))
	assert.Equal(t, []int{3, 3}, calls)
	assert.Error(t, Multi{ok, fail, ok}.Emit(4, nil, nil))
	assert.Equal(t, []int{3, 3, 4}, calls)
}

type token struct {
	err error
}

func (t *token) Wait() bool                     { return true }
func (t *token) WaitTimeout(time.Duration) bool { return true }
func (t *token) Done() <-chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
func (t *token) Error() error { return t.err }

type publisher struct {
	topic    string
	payloads [][]byte
	err      error
}

func (p *publisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.topic = topic
	p.payloads = append(p.payloads, payload.([]byte))
	return &token{err: p.err}
}

func TestMQTT(t *testing.T) {
	p := &publisher{}
	m := &MQTT{Client: p, Topic: "thermal/frames"}
	f := frame.New(1, 1)
	f.Min, f.Max = 18000, 19000
	require.NoError(t, m.Emit(2, f, testImage()))
	require.Len(t, p.payloads, 1)
	assert.Equal(t, "thermal/frames", p.topic)

	var item Item
	require.NoError(t, json.Unmarshal(p.payloads[0], &item))
	assert.Equal(t, 2, item.Index)
	assert.Equal(t, uint16(18000), item.Min)
	assert.Equal(t, uint16(19000), item.Max)
	img, err := png.Decode(bytes.NewReader(item.PNG))
	require.NoError(t, err)
	assert.Equal(t, color.RGBAModel.Convert(color.RGBA{10, 20, 30, 255}), color.RGBAModel.Convert(img.At(0, 0)))
}

func TestMQTT_fail(t *testing.T) {
	p := &publisher{err: errors.New("broker gone")}
	m := &MQTT{Client: p, Topic: "t"}
	assert.Error(t, m.Emit(1, frame.New(1, 1), testImage()))
}
