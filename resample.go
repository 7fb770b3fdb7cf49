package iconset

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Resampler scales an image to exact pixel dimensions.
type Resampler interface {
	Resample(src image.Image, width, height int) (image.Image, error)
}

// ResamplerFunc adapts a function to the Resampler interface.
type ResamplerFunc func(src image.Image, width, height int) (image.Image, error)

func (fn ResamplerFunc) Resample(src image.Image, width, height int) (image.Image, error) {
	return fn(src, width, height)
}

// Interpolate resamples with an nfnt/resize kernel. Straight alpha and
// paletted sources come back as *image.NRGBA; other layouts keep what
// nfnt/resize returns for them.
type Interpolate resize.InterpolationFunction

func (i Interpolate) Resample(src image.Image, width, height int) (img image.Image, err error) {
	if err := checkTarget(src, width, height); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("resizing to %dx%d: %v", width, height, r)
		}
	}()
	switch src.(type) {
	case *image.NRGBA, *image.Paletted:
		// nfnt premultiplies; at 16 bits low alpha pixels keep their colour.
		wide := image.NewNRGBA64(src.Bounds())
		draw.Draw(wide, wide.Bounds(), src, src.Bounds().Min, draw.Src)
		out := resize.Resize(uint(width), uint(height), wide, resize.InterpolationFunction(i))
		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(dst, dst.Bounds(), out, out.Bounds().Min, draw.Src)
		return dst, nil
	}
	return resize.Resize(uint(width), uint(height), src, resize.InterpolationFunction(i)), nil
}

// Kernel resamples with an x/image/draw kernel into an image of the same
// colour model as the source where draw can produce one.
type Kernel struct {
	*draw.Kernel
}

func (k Kernel) Resample(src image.Image, width, height int) (image.Image, error) {
	if err := checkTarget(src, width, height); err != nil {
		return nil, err
	}
	var (
		rect = image.Rect(0, 0, width, height)
		dst  draw.Image
	)
	switch src.(type) {
	case *image.NRGBA:
		dst = image.NewNRGBA(rect)
	case *image.NRGBA64:
		dst = image.NewNRGBA64(rect)
	case *image.RGBA64:
		dst = image.NewRGBA64(rect)
	case *image.Gray:
		dst = image.NewGray(rect)
	case *image.Gray16:
		dst = image.NewGray16(rect)
	default:
		dst = image.NewRGBA(rect)
	}
	k.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// Bild resamples with a bild filter. Output is always RGBA.
type Bild struct {
	Filter transform.ResampleFilter
}

func (b Bild) Resample(src image.Image, width, height int) (image.Image, error) {
	if err := checkTarget(src, width, height); err != nil {
		return nil, err
	}
	return transform.Resize(src, width, height, b.Filter), nil
}

func checkTarget(src image.Image, width, height int) error {
	if src == nil {
		return fmt.Errorf("no source image")
	}
	if src.Bounds().Empty() {
		return fmt.Errorf("source image is empty")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid target size %dx%d", width, height)
	}
	return nil
}

// DefaultResampler is used when a Generator has none configured.
var DefaultResampler Resampler = Interpolate(resize.Lanczos3)

var resamplers = map[string]Resampler{
	"lanczos3":     Interpolate(resize.Lanczos3),
	"lanczos2":     Interpolate(resize.Lanczos2),
	"bicubic":      Interpolate(resize.Bicubic),
	"mitchell":     Interpolate(resize.MitchellNetravali),
	"catmullrom":   Kernel{draw.CatmullRom},
	"bild-lanczos": Bild{Filter: transform.Lanczos},
}

// ResamplerByName looks up one of the high quality resamplers.
// Nearest neighbour and bilinear are not offered.
func ResamplerByName(name string) (Resampler, error) {
	r, ok := resamplers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown resampler %q, want one of %s", name, strings.Join(ResamplerNames(), ", "))
	}
	return r, nil
}

// ResamplerNames lists the names accepted by ResamplerByName.
func ResamplerNames() []string {
	names := make([]string, 0, len(resamplers))
	for name := range resamplers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
