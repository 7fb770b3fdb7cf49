package iconset

import (
	"image"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// RequiredEdge is the edge length a source image must have.
const RequiredEdge = 1024

// lossless lists the decoders accepted for source images.
var lossless = map[string]bool{
	"png":  true,
	"tiff": true,
	"bmp":  true,
}

// OpenSource decodes the source image at path.
func OpenSource(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fail(CodeInvalidSource, "", err, "opening %s", path)
	}
	defer f.Close()
	return DecodeSource(f)
}

// DecodeSource decodes a losslessly encoded source image and checks that it
// has the required dimensions.
func DecodeSource(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fail(CodeInvalidSource, "", err, "decoding source image")
	}
	if !lossless[format] {
		return nil, fail(CodeInvalidSource, "", nil, "source format %q is lossy, use png", format)
	}
	if err := CheckSource(img, nil); err != nil {
		return nil, err
	}
	return img, nil
}

// CheckSource verifies the source is square, RequiredEdge pixels on each
// side, and large enough for every variant so nothing is upscaled.
func CheckSource(img image.Image, variants []Resolved) error {
	if img == nil {
		return fail(CodeInvalidSource, "", nil, "no source image")
	}
	size := img.Bounds().Size()
	if size.X != size.Y {
		return fail(CodeInvalidSource, "", nil, "source is %dx%d, want a square image", size.X, size.Y)
	}
	if size.X != RequiredEdge {
		return fail(CodeInvalidSource, "", nil, "source is %dx%d, want %dx%d", size.X, size.Y, RequiredEdge, RequiredEdge)
	}
	if max := largest(variants); max > size.X {
		return fail(CodeInvalidSource, "", nil, "source edge %d is smaller than required %d", size.X, max)
	}
	return nil
}
