package iconset

import (
	"image"
	"image/color"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

func TestResamplersExactSize(t *testing.T) {
	src := newSource(256, 256)
	for _, name := range ResamplerNames() {
		r, err := ResamplerByName(name)
		require.NoError(t, err, name)
		for _, size := range []image.Point{{1, 1}, {55, 55}, {167, 167}, {40, 20}} {
			img, err := r.Resample(src, size.X, size.Y)
			require.NoError(t, err, name)
			assert.Equal(t, size, img.Bounds().Size(), "%s %v", name, size)
		}
	}
}

func TestKernelKeepsColourModel(t *testing.T) {
	img, err := Kernel{nil}.Resample(nil, 1, 1)
	assert.Error(t, err)
	assert.Nil(t, img)

	r, err := ResamplerByName("catmullrom")
	require.NoError(t, err)
	img, err = r.Resample(newSource(64, 64), 16, 16)
	require.NoError(t, err)
	assert.IsType(t, &image.NRGBA{}, img)

	img, err = r.Resample(image.NewGray(image.Rect(0, 0, 64, 64)), 16, 16)
	require.NoError(t, err)
	assert.IsType(t, &image.Gray{}, img)
}

func TestResampleInvalidTarget(t *testing.T) {
	for _, name := range ResamplerNames() {
		r, err := ResamplerByName(name)
		require.NoError(t, err)
		_, err = r.Resample(newSource(16, 16), 0, 16)
		assert.Error(t, err, name)
		_, err = r.Resample(image.NewNRGBA(image.Rectangle{}), 16, 16)
		assert.Error(t, err, name)
	}
}

func TestResamplerByName(t *testing.T) {
	r, err := ResamplerByName(" Lanczos3 ")
	require.NoError(t, err)
	assert.Equal(t, DefaultResampler, r)

	_, err = ResamplerByName("nearest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lanczos3")

	names := ResamplerNames()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Len(t, names, 6)
}

func TestInterpolateKeepsStraightAlpha(t *testing.T) {
	want := color.NRGBA{R: 200, G: 100, B: 50, A: 3}
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(src, src.Bounds(), image.NewUniform(want), image.Point{}, draw.Src)

	img, err := DefaultResampler.Resample(src, 16, 16)
	require.NoError(t, err)
	out, ok := img.(*image.NRGBA)
	require.True(t, ok, "got %T", img)
	got := out.NRGBAAt(8, 8)
	assert.Equal(t, want.A, got.A)
	assert.InDelta(t, want.R, got.R, 2)
	assert.InDelta(t, want.G, got.G, 2)
	assert.InDelta(t, want.B, got.B, 2)
}

func TestInterpolatePalettedStaysEightBit(t *testing.T) {
	palette := color.Palette{color.NRGBA{A: 0}, color.NRGBA{R: 255, A: 255}}
	src := image.NewPaletted(image.Rect(0, 0, 64, 64), palette)
	for y := 0; y < 64; y++ {
		for x := 32; x < 64; x++ {
			src.SetColorIndex(x, y, 1)
		}
	}
	img, err := DefaultResampler.Resample(src, 16, 16)
	require.NoError(t, err)
	out, ok := img.(*image.NRGBA)
	require.True(t, ok, "got %T", img)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(15, 8))
	assert.Equal(t, uint8(0), out.NRGBAAt(0, 8).A)
}
