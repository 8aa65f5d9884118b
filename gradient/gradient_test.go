// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gradient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maruel/thermview/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/periph/conn/physic"
)

func TestRawCode(t *testing.T) {
	data := []struct {
		i, size, want int
	}{
		{0, DefaultSize, 0},
		{19088, DefaultSize, 19088},
		{DefaultSize - 1, DefaultSize, 65536},
		{1, 2, 65536},
		{1, 3, 32768},
	}
	for _, line := range data {
		assert.Equal(t, line.want, RawCode(line.i, line.size), "%d/%d", line.i, line.size)
	}
	// Codes are always a multiple of 16, i.e. 0.25°K.
	for i := 0; i < DefaultSize; i += 97 {
		assert.Zero(t, RawCode(i, DefaultSize)%16, i)
	}
}

func TestCodeToTemperature(t *testing.T) {
	assert.Equal(t, physic.Temperature(0), CodeToTemperature(0))
	assert.Equal(t, 300*physic.Kelvin, CodeToTemperature(300*64))
	assert.Equal(t, physic.ZeroCelsius+25*physic.Celsius+100*physic.MilliKelvin, CodeToTemperature(19088))
}

func TestBuild(t *testing.T) {
	lut, err := Build(palette.Animal, DefaultSize)
	require.NoError(t, err)
	require.Len(t, lut, 3*DefaultSize)
	require.Equal(t, DefaultSize, lut.Len())

	// Absolute zero is below the first stop.
	r, g, b := lut.RGB(0)
	assert.Equal(t, []uint8{0, 0, 0}, []uint8{r, g, b})
	// 750.85°C is above the last stop.
	r, g, b = lut.RGB(DefaultSize - 1)
	assert.Equal(t, []uint8{255, 255, 255}, []uint8{r, g, b})
	// 25.1°C is 2% between green and yellow.
	r, g, b = lut.RGB(19088)
	assert.Equal(t, []uint8{5, 255, 0}, []uint8{r, g, b})
}

func TestBuild_stopsReproduced(t *testing.T) {
	// Thresholds sit exactly on raw codes 18176, 19456 and 20480.
	stops := palette.Table{
		palette.Stop(10, 20, 30, 10.85),
		palette.Stop(200, 100, 0, 30.85),
		palette.Stop(0, 255, 128, 46.85),
	}
	lut, err := Build(stops, DefaultSize)
	require.NoError(t, err)
	for k, s := range stops {
		best, bestDelta := 0, physic.Temperature(-1)
		for i := 0; i < DefaultSize; i++ {
			d := CodeToTemperature(RawCode(i, DefaultSize)) - s.T
			if d < 0 {
				d = -d
			}
			if bestDelta < 0 || d < bestDelta {
				best, bestDelta = i, d
			}
		}
		r, g, b := lut.RGB(best)
		assert.InDelta(t, s.R, r, 1, "stop %d", k)
		assert.InDelta(t, s.G, g, 1, "stop %d", k)
		assert.InDelta(t, s.B, b, 1, "stop %d", k)
	}
}

func TestBuild_fail(t *testing.T) {
	_, err := Build(palette.Animal, 1)
	assert.Error(t, err)
	_, err = Build(nil, DefaultSize)
	assert.Error(t, err)
	_, err = Build(palette.Table{palette.Stop(0, 0, 0, 20), palette.Stop(0, 0, 0, 10)}, DefaultSize)
	assert.Error(t, err)
}

func TestInterpolate(t *testing.T) {
	single := palette.Table{palette.Stop(1, 2, 3, 0)}
	edge := palette.Table{palette.Stop(0, 0, 0, 0), palette.Stop(255, 255, 255, 10), palette.Stop(9, 9, 9, 10)}
	data := []struct {
		stops   palette.Table
		celsius float64
		want    []uint8
	}{
		{single, -100, []uint8{1, 2, 3}},
		{single, 100, []uint8{1, 2, 3}},
		{palette.Animal, 12.5, []uint8{0, 0, 128}},
		{palette.Animal, 40, []uint8{255, 0, 0}},
		{palette.Animal, 1000, []uint8{255, 255, 255}},
		{edge, 9.98, []uint8{254, 254, 254}},
		{edge, 10, []uint8{9, 9, 9}},
		{edge, 20, []uint8{9, 9, 9}},
	}
	for i, line := range data {
		r, g, b := Interpolate(line.stops, palette.FromCelsius(line.celsius))
		assert.Equal(t, line.want, []uint8{r, g, b}, i)
	}
}

func TestRGB_clamp(t *testing.T) {
	lut := Table{1, 2, 3, 4, 5, 6}
	r, g, b := lut.RGB(-1)
	assert.Equal(t, []uint8{1, 2, 3}, []uint8{r, g, b})
	r, g, b = lut.RGB(1000)
	assert.Equal(t, []uint8{4, 5, 6}, []uint8{r, g, b})
}

func TestSaveLoad(t *testing.T) {
	lut, err := Build(palette.Ice, 256)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "gradient.bin")
	require.NoError(t, Save(p, lut))
	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, lut, got)

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file leaked")
}

func TestSave_fail(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing", "gradient.bin")
	assert.Error(t, Save(p, Table{0, 0, 0, 0, 0, 0}))
}

func TestLoad_fail(t *testing.T) {
	d := t.TempDir()
	_, err := Load(filepath.Join(d, "missing.bin"))
	assert.Error(t, err)
	p := filepath.Join(d, "short.bin")
	require.NoError(t, os.WriteFile(p, []byte{1, 2, 3, 4}, 0o644))
	_, err = Load(p)
	assert.Error(t, err)
}
