package iconset

import (
	"math"
	"strconv"
	"strings"
)

// maxEdge bounds a computed pixel dimension; anything larger is a typo in the
// catalog, not an icon.
const maxEdge = 1 << 15

// Resolved is a variant with its concrete pixel dimensions.
type Resolved struct {
	Variant
	Width  int
	Height int
}

// Plan is the set of variants a generation request will produce.
type Plan struct {
	Variants []Resolved
	Info     Info
}

// Largest returns the largest edge required by any variant in the plan.
func (p Plan) Largest() int {
	return largest(p.Variants)
}

// Catalog returns the manifest describing the plan.
func (p Plan) Catalog() Catalog {
	return manifest(p.Variants, p.Info)
}

func largest(variants []Resolved) int {
	var max int
	for _, v := range variants {
		if v.Width > max {
			max = v.Width
		}
		if v.Height > max {
			max = v.Height
		}
	}
	return max
}

func manifest(variants []Resolved, info Info) Catalog {
	images := make([]Variant, 0, len(variants))
	for _, v := range variants {
		images = append(images, v.Variant)
	}
	return Catalog{Images: images, Info: info}
}

// Filter returns the variants of the catalog implied by the selected families,
// in catalog order.
func Filter(c Catalog, f Family) []Variant {
	var out []Variant
	for _, v := range c.Images {
		if v.Idiom.Selected(f) {
			out = append(out, v)
		}
	}
	return out
}

// ParseDimensions computes the pixel dimensions of a variant from its size and
// scale. Results are rounded to the nearest pixel, halves away from zero.
func ParseDimensions(v Variant) (width, height int, err error) {
	parts := strings.Split(v.Size, "x")
	if len(parts) != 2 {
		return 0, 0, fail(CodeInvalidSizeSpec, v.Filename, nil, "size %q is not <width>x<height>", v.Size)
	}
	w, err := parseNumber(parts[0])
	if err != nil {
		return 0, 0, fail(CodeInvalidSizeSpec, v.Filename, err, "size %q", v.Size)
	}
	h, err := parseNumber(parts[1])
	if err != nil {
		return 0, 0, fail(CodeInvalidSizeSpec, v.Filename, err, "size %q", v.Size)
	}
	factor, ok := strings.CutSuffix(strings.TrimSpace(v.Scale), "x")
	if !ok {
		return 0, 0, fail(CodeInvalidSizeSpec, v.Filename, nil, "scale %q is not <n>x", v.Scale)
	}
	scale, err := parseNumber(factor)
	if err != nil {
		return 0, 0, fail(CodeInvalidSizeSpec, v.Filename, err, "scale %q", v.Scale)
	}
	if w <= 0 || h <= 0 || scale <= 0 {
		return 0, 0, fail(CodeInvalidSizeSpec, v.Filename, nil, "%s at %s is not positive", v.Size, v.Scale)
	}
	if w*scale > maxEdge || h*scale > maxEdge {
		return 0, 0, fail(CodeInvalidSizeSpec, v.Filename, nil, "%s at %s exceeds %d pixels", v.Size, v.Scale, maxEdge)
	}
	width, height = int(math.Round(w*scale)), int(math.Round(h*scale))
	if width <= 0 || height <= 0 {
		return 0, 0, fail(CodeInvalidSizeSpec, v.Filename, nil, "%s at %s resolves to %dx%d pixels", v.Size, v.Scale, width, height)
	}
	return width, height, nil
}

func parseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// Resolve loads the built in catalog and resolves it for the families.
func Resolve(f Family) (Plan, error) {
	if !f.Valid() {
		return Plan{}, fail(CodeInvalidFamilySelection, "", nil, "family selection %q is empty or unknown", f)
	}
	c, err := LoadCatalog()
	if err != nil {
		return Plan{}, err
	}
	return ResolveCatalog(c, f)
}

// ResolveCatalog filters the catalog and computes pixel dimensions for every
// surviving variant. Any unparseable variant fails the whole plan.
func ResolveCatalog(c Catalog, f Family) (Plan, error) {
	if !f.Valid() {
		return Plan{}, fail(CodeInvalidFamilySelection, "", nil, "family selection %q is empty or unknown", f)
	}
	selected := Filter(c, f)
	plan := Plan{
		Variants: make([]Resolved, 0, len(selected)),
		Info:     c.Info,
	}
	for _, v := range selected {
		w, h, err := ParseDimensions(v)
		if err != nil {
			return Plan{}, err
		}
		plan.Variants = append(plan.Variants, Resolved{Variant: v, Width: w, Height: h})
	}
	return plan, nil
}
