package iconset

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kdomanski/iso9660"
)

// DiskImage packs the directory src into an ISO 9660 image named <id>.iso
// inside dst and returns its path. The directory name becomes the top level
// entry of the image.
func DiskImage(src, dst, id string) (string, error) {
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("stat: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s not a directory", src)
	}
	writer, err := iso9660.NewWriter()
	if err != nil {
		return "", fmt.Errorf("initialising writer: %w", err)
	}
	defer writer.Cleanup()
	parent := filepath.Dir(src)
	if err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening file %s: %w", path, err)
		}
		defer f.Close()
		if err := writer.AddFile(f, filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("adding file %s: %w", path, err)
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("adding files from %s to image: %w", src, err)
	}
	b := bytes.NewBuffer(nil)
	if err := writer.WriteTo(b, volumeID(id)); err != nil {
		return "", fmt.Errorf("writing ISO image: %w", err)
	}
	output := filepath.Join(dst, id+".iso")
	if err := os.WriteFile(output, b.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing output file: %w", err)
	}
	return output, nil
}

// volumeID restricts id to the d-characters allowed in a volume identifier.
func volumeID(id string) string {
	id = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, id)
	if len(id) > 32 {
		id = id[:32]
	}
	return id
}
