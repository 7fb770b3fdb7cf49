package iconset

import (
	"fmt"
	"image"
	"io"
	"os"

	"git.sr.ht/~jackmordaunt/iconset/ico"
	"git.sr.ht/~jackmordaunt/iconset/rsrc"
	"github.com/jackmordaunt/icns"
)

// WriteICNS encodes src as a macOS icon file at path.
func WriteICNS(path string, src image.Image) error {
	return writeFile(path, func(w io.Writer) error {
		if err := icns.Encode(w, src); err != nil {
			return fmt.Errorf("encoding icns: %w", err)
		}
		return nil
	})
}

// WriteICO encodes src as a Windows icon file at path.
func WriteICO(path string, src image.Image) error {
	return writeFile(path, func(w io.Writer) error {
		if err := ico.Encode(w, src); err != nil {
			return fmt.Errorf("encoding ico: %w", err)
		}
		return nil
	})
}

// WriteSyso compiles the ico at icoPath into a linker resource at path.
func WriteSyso(path, icoPath string, arch rsrc.Arch) error {
	if err := rsrc.Embed(path, arch, icoPath); err != nil {
		return fmt.Errorf("embedding %s: %w", icoPath, err)
	}
	return nil
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening destination file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
