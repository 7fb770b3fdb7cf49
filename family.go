package iconset

import (
	"fmt"
	"strings"
)

// Family is a set of device families to generate icons for.
// Individual families are single bits; combine them with |.
type Family uint8

const (
	Phone Family = 1 << iota
	Pad
	Watch
	Desktop
	Car

	// AllFamilies is the full universe of supported families.
	AllFamilies = Phone | Pad | Watch | Desktop | Car
)

var families = []Family{Phone, Pad, Watch, Desktop, Car}

// Has reports whether every family in other is selected.
func (f Family) Has(other Family) bool {
	return other != 0 && f&other == other
}

// Empty reports whether no family is selected.
func (f Family) Empty() bool {
	return f&AllFamilies == 0
}

// Valid reports whether f is non-empty and only holds known families.
func (f Family) Valid() bool {
	return !f.Empty() && f&^AllFamilies == 0
}

// Split returns the individual families in f, in canonical order.
func (f Family) Split() []Family {
	var out []Family
	for _, family := range families {
		if f.Has(family) {
			out = append(out, family)
		}
	}
	return out
}

// Idiom returns the catalog idiom for a single family.
// Combined or unknown families have no idiom.
func (f Family) Idiom() (Idiom, bool) {
	switch f {
	case Phone:
		return IdiomPhone, true
	case Pad:
		return IdiomPad, true
	case Watch:
		return IdiomWatch, true
	case Desktop:
		return IdiomDesktop, true
	case Car:
		return IdiomCar, true
	}
	return "", false
}

func (f Family) String() string {
	var names []string
	for _, family := range f.Split() {
		switch family {
		case Phone:
			names = append(names, "phone")
		case Pad:
			names = append(names, "pad")
		case Watch:
			names = append(names, "watch")
		case Desktop:
			names = append(names, "desktop")
		case Car:
			names = append(names, "car")
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseFamilies parses a comma separated list of family names.
// Idiom spellings ("iphone", "mac") and "all" are accepted too.
func ParseFamilies(s string) (Family, error) {
	var f Family
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "":
			continue
		case "phone", "iphone":
			f |= Phone
		case "pad", "ipad":
			f |= Pad
		case "watch", "applewatch":
			f |= Watch
		case "desktop", "mac", "macos":
			f |= Desktop
		case "car", "carplay":
			f |= Car
		case "all":
			f |= AllFamilies
		default:
			return 0, fail(CodeInvalidFamilySelection, "", nil, "unknown family %q", name)
		}
	}
	if f.Empty() {
		return 0, fail(CodeInvalidFamilySelection, "", nil, "no device family selected")
	}
	return f, nil
}

// UnmarshalText parses a family list from an environment variable.
func (f *Family) UnmarshalText(text []byte) error {
	return f.Set(string(text))
}

// Set implements flag.Value.
func (f *Family) Set(s string) error {
	parsed, err := ParseFamilies(s)
	if err != nil {
		return fmt.Errorf("parsing families: %w", err)
	}
	*f = parsed
	return nil
}
