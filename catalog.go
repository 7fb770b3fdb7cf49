package iconset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"git.sr.ht/~jackmordaunt/iconset/internal/util"
)

// ManifestName is the file the catalog is written to inside an icon set.
const ManifestName = "Contents.json"

//go:embed catalog.json
var catalogJSON []byte

// embedded is the catalog resource consulted by LoadCatalog.
var embedded = catalogJSON

// Idiom is the device family tag attached to a variant.
type Idiom string

const (
	IdiomPhone          Idiom = "iphone"
	IdiomPad            Idiom = "ipad"
	IdiomMarketing      Idiom = "ios-marketing"
	IdiomWatch          Idiom = "watch"
	IdiomWatchMarketing Idiom = "watch-marketing"
	IdiomDesktop        Idiom = "mac"
	IdiomCar            Idiom = "car"
)

// UnmarshalText rejects idioms outside the known set.
func (i *Idiom) UnmarshalText(text []byte) error {
	switch v := Idiom(text); v {
	case IdiomPhone, IdiomPad, IdiomMarketing, IdiomWatch, IdiomWatchMarketing, IdiomDesktop, IdiomCar:
		*i = v
		return nil
	}
	return fmt.Errorf("unknown idiom %q", string(text))
}

// Selected reports whether a variant tagged with this idiom belongs to the
// selected families.
func (i Idiom) Selected(f Family) bool {
	switch i {
	case IdiomMarketing:
		return f.Has(Phone) || f.Has(Pad)
	case IdiomWatchMarketing:
		return f.Has(Watch)
	}
	for _, family := range f.Split() {
		if idiom, ok := family.Idiom(); ok && idiom == i {
			return true
		}
	}
	return false
}

// Variant describes one required icon asset.
// Field order is the manifest's field order.
type Variant struct {
	Size     string `json:"size"`
	Idiom    Idiom  `json:"idiom"`
	Filename string `json:"filename"`
	Scale    string `json:"scale"`
	Role     string `json:"role,omitempty"`
	Subtype  string `json:"subtype,omitempty"`
}

// Info is catalog metadata, carried through to the manifest untouched.
type Info struct {
	Version int    `json:"version"`
	Author  string `json:"author"`
}

// Catalog is an ordered list of variants plus metadata. It doubles as the
// manifest schema.
type Catalog struct {
	Images []Variant `json:"images"`
	Info   Info      `json:"info"`
}

// LoadCatalog parses the catalog compiled into the binary.
func LoadCatalog() (Catalog, error) {
	if len(embedded) == 0 {
		return Catalog{}, fail(CodeCatalogUnavailable, "", nil, "embedded catalog resource is missing")
	}
	return ParseCatalog(bytes.NewReader(embedded))
}

// ParseCatalog decodes and validates a catalog.
func ParseCatalog(r io.Reader) (Catalog, error) {
	var c Catalog
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fail(CodeCatalogMalformed, "", err, "decoding catalog")
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fail(CodeCatalogMalformed, "", err, "validating catalog")
	}
	return c, nil
}

// Validate reports every structural problem in the catalog at once.
func (c Catalog) Validate() error {
	var (
		errs = util.MultiError{}
		seen = make(map[string]int, len(c.Images))
	)
	for ii, v := range c.Images {
		if err := validFilename(v.Filename); err != nil {
			errs = append(errs, fmt.Errorf("image %d: %w", ii, err))
		} else if prev, ok := seen[v.Filename]; ok {
			errs = append(errs, fmt.Errorf("image %d: filename %q already used by image %d", ii, v.Filename, prev))
		} else {
			seen[v.Filename] = ii
		}
		if v.Idiom == "" {
			errs = append(errs, fmt.Errorf("image %d: missing idiom", ii))
		}
		if _, _, err := ParseDimensions(v); err != nil {
			errs = append(errs, fmt.Errorf("image %d: %w", ii, err))
		}
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func validFilename(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("missing filename")
	case name == "." || name == "..":
		return fmt.Errorf("filename %q is not a file", name)
	case strings.ContainsAny(name, `/\`) || filepath.Base(name) != name:
		return fmt.Errorf("filename %q must not contain a path", name)
	case strings.EqualFold(name, ManifestName):
		return fmt.Errorf("filename %q collides with the manifest", name)
	}
	return nil
}

// Filter returns a copy of the catalog holding only the variants selected by
// the families. The metadata is kept as is.
func (c Catalog) Filter(f Family) Catalog {
	return Catalog{
		Images: Filter(c, f),
		Info:   c.Info,
	}
}

// WriteManifest writes the catalog as pretty-printed JSON.
func (c Catalog) WriteManifest(w io.Writer) error {
	if c.Images == nil {
		c.Images = []Variant{}
	}
	by, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	by = append(by, '\n')
	if _, err := w.Write(by); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
