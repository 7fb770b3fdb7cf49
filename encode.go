package iconset

import (
	"image"
	"image/png"
	"io"
)

// Encoder writes an image in a lossless format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// PNGEncoder encodes PNG images. The zero value uses default compression.
type PNGEncoder struct {
	Level png.CompressionLevel
}

func (e PNGEncoder) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: e.Level}
	return enc.Encode(w, img)
}
