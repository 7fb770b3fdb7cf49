package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Finder finds files by name.
type Finder struct {
	// Root folder to start search from.
	Root string
	// IsDir if we are looking for a directory.
	IsDir bool
	// Rel indicates to return a relative path instead of an absolute path.
	Rel bool
	// Skip lists directory names that are not descended into.
	Skip []string
}

// errFound stops the walk at the first match.
var errFound = errors.New("found")

// Find the first file with the given name recursively from the root, in
// lexical walk order.
//
// Returns the absolute path to the file, or an error if something went wrong
// while walking the file system.
//
// If path is empty then no file was found.
func (f Finder) Find(name string) (string, error) {
	var found string
	err := filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != f.Root && f.skip(d.Name()) {
			return filepath.SkipDir
		}
		if d.IsDir() == f.IsDir && d.Name() == name {
			found = path
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return "", fmt.Errorf("walking: %w", err)
	}
	if found == "" {
		return "", nil
	}
	if f.Rel {
		rel, err := filepath.Rel(f.Root, found)
		if err != nil {
			return "", fmt.Errorf("resolving relative path: %w", err)
		}
		if !strings.HasPrefix(rel, ".") {
			rel = "." + string(os.PathSeparator) + rel
		}
		return rel, nil
	}
	found, err = filepath.Abs(found)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return found, nil
}

func (f Finder) skip(dir string) bool {
	for _, s := range f.Skip {
		if s == dir {
			return true
		}
	}
	return false
}
