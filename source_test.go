package iconset

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func TestDecodeSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, newSource(1024, 1024)))
	img, err := DecodeSource(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1024, 1024), img.Bounds().Size())

	buf.Reset()
	require.NoError(t, tiff.Encode(&buf, newSource(1024, 1024), nil))
	_, err = DecodeSource(&buf)
	assert.NoError(t, err)
}

func TestDecodeSourceRejects(t *testing.T) {
	encode := func(img image.Image, lossy bool) *bytes.Buffer {
		var buf bytes.Buffer
		if lossy {
			require.NoError(t, jpeg.Encode(&buf, img, nil))
		} else {
			require.NoError(t, png.Encode(&buf, img))
		}
		return &buf
	}
	tests := map[string]*bytes.Buffer{
		"lossy":      encode(newSource(1024, 1024), true),
		"small":      encode(newSource(512, 512), false),
		"non-square": encode(newSource(1024, 768), false),
		"garbage":    bytes.NewBufferString("not an image"),
	}
	for name, buf := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSource(buf)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSource), err.Error())
		})
	}
}

func TestOpenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, newSource(1024, 1024)))
	require.NoError(t, f.Close())

	_, err = OpenSource(path)
	assert.NoError(t, err)

	_, err = OpenSource(filepath.Join(t.TempDir(), "missing.png"))
	assert.True(t, errors.Is(err, ErrInvalidSource))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCheckSourceLargestVariant(t *testing.T) {
	big := []Resolved{{Variant: Variant{Filename: "huge.png"}, Width: 2048, Height: 2048}}
	err := CheckSource(newSource(1024, 1024), big)
	assert.True(t, errors.Is(err, ErrInvalidSource))
	assert.Contains(t, err.Error(), "smaller than required 2048")

	assert.NoError(t, CheckSource(newSource(1024, 1024), ladder()))
}
