package iconset

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// newSource returns an opaque-to-transparent gradient so resampling has
// something to chew on.
func newSource(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8((x + y) % 256),
				A: uint8(255 - y*128/height),
			})
		}
	}
	return img
}

// fixture is the three variant catalog used across tests.
func fixture() Catalog {
	return Catalog{
		Images: []Variant{
			{Size: "60x60", Idiom: IdiomPhone, Filename: "icon1.png", Scale: "2x"},
			{Size: "1024x1024", Idiom: IdiomMarketing, Filename: "marketing.png", Scale: "1x"},
			{Size: "40x40", Idiom: IdiomWatchMarketing, Filename: "watch1.png", Scale: "2x"},
		},
		Info: Info{Version: 1, Author: "xcode"},
	}
}

// ladder resolves to four variants of distinct pixel sizes, in order.
func ladder() []Resolved {
	return []Resolved{
		{Variant: Variant{Size: "16x16", Idiom: IdiomDesktop, Filename: "a.png", Scale: "1x"}, Width: 16, Height: 16},
		{Variant: Variant{Size: "16x16", Idiom: IdiomDesktop, Filename: "b.png", Scale: "2x"}, Width: 32, Height: 32},
		{Variant: Variant{Size: "48x48", Idiom: IdiomDesktop, Filename: "c.png", Scale: "1x"}, Width: 48, Height: 48},
		{Variant: Variant{Size: "32x32", Idiom: IdiomDesktop, Filename: "d.png", Scale: "2x"}, Width: 64, Height: 64},
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	return img
}

func readFile(t *testing.T, dir, name string) []byte {
	t.Helper()
	by, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return by
}
