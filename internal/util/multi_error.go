package util

import (
	"fmt"
	"strings"
)

// MultiError combines a number of errors into a single error value.
type MultiError []error

func (me MultiError) IsEmpty() bool {
	return len(me) == 0
}

func (me MultiError) Error() string {
	switch len(me) {
	case 0:
		return "no errors"
	case 1:
		return me[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d problems:", len(me))
	for ii, err := range me {
		fmt.Fprintf(&b, "\n\t%d: %s", ii+1, err)
	}
	return b.String()
}

// Unwrap exposes every combined error to errors.Is and errors.As.
func (me MultiError) Unwrap() []error {
	return me
}
