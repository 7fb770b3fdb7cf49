package iconset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Generator materializes a resolved plan on disk.
//
// The zero value resamples with Lanczos-3, encodes default-compression PNG,
// logs nothing and works through the variants one at a time.
type Generator struct {
	Resampler Resampler
	Encoder   Encoder
	// Logger receives progress and failure diagnostics. Nil discards them.
	Logger *slog.Logger
	// Workers bounds how many variants are rendered at once. Values below 2
	// render sequentially in catalog order. Capped at the CPU count.
	Workers int
	// Atomic builds the icon set in a sibling staging directory and swaps it
	// into place only when every file was written. When false, a failure
	// leaves the destination holding whatever was written before it.
	Atomic bool
}

// Generate materializes variants into dst using a zero Generator.
func Generate(ctx context.Context, dst string, variants []Resolved, src image.Image, info Info) error {
	return Generator{}.Generate(ctx, dst, variants, src, info)
}

// Generate writes the manifest followed by one image per variant into dst.
//
// An existing dst is removed first. The parent of dst must already exist.
// The first failure ends the run; in non-atomic mode images already written
// are left in place.
func (g Generator) Generate(ctx context.Context, dst string, variants []Resolved, src image.Image, info Info) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		log     = g.logger().With("path", dst)
		touched bool
	)
	defer func() {
		if err == nil {
			return
		}
		var e *Error
		if errors.As(err, &e) && e.Filename != "" {
			log.Error("generation failed", "stage", e.Code.Stage(), "file", e.Filename, "err", err)
		} else if e != nil {
			log.Error("generation failed", "stage", e.Code.Stage(), "err", err)
		} else {
			log.Error("generation failed", "err", err)
		}
		if touched && !g.Atomic {
			log.Warn("destination may be incomplete")
		}
	}()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("generation cancelled: %w", err)
	}
	if err := checkVariants(variants); err != nil {
		return err
	}
	if err := CheckSource(src, variants); err != nil {
		return err
	}
	dir := dst
	if g.Atomic {
		var holder string
		if holder, dir, err = stage(dst); err != nil {
			return err
		}
		defer func() {
			_ = os.RemoveAll(holder)
		}()
	} else {
		touched = true
		if err := prepare(dst); err != nil {
			return err
		}
	}
	log.Info("generating icon set", "variants", len(variants))
	if err := writeManifest(filepath.Join(dir, ManifestName), manifest(variants, info)); err != nil {
		return fail(CodeManifestWriteFailed, ManifestName, err, "writing manifest")
	}
	log.Debug("wrote manifest", "file", ManifestName)
	if err := g.writeImages(ctx, dir, variants, src); err != nil {
		return err
	}
	if g.Atomic {
		if err := commit(dir, dst); err != nil {
			return err
		}
	}
	log.Info("icon set generated", "variants", len(variants))
	return nil
}

func (g Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return g.Logger
}

func (g Generator) resampler() Resampler {
	if g.Resampler == nil {
		return DefaultResampler
	}
	return g.Resampler
}

func (g Generator) encoder() Encoder {
	if g.Encoder == nil {
		return PNGEncoder{}
	}
	return g.Encoder
}

func (g Generator) workers(jobs int) int {
	n := g.Workers
	if max := runtime.NumCPU(); n > max {
		n = max
	}
	if n > jobs {
		n = jobs
	}
	return n
}

// checkVariants guards the file system: every filename must be a plain,
// unique file name before anything is written.
func checkVariants(variants []Resolved) error {
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if err := validFilename(v.Filename); err != nil {
			return fail(CodeCatalogMalformed, v.Filename, err, "unusable filename")
		}
		if seen[v.Filename] {
			return fail(CodeCatalogMalformed, v.Filename, nil, "filename used by more than one variant")
		}
		seen[v.Filename] = true
		if v.Width <= 0 || v.Height <= 0 {
			return fail(CodeInvalidSizeSpec, v.Filename, nil, "unresolved size %dx%d", v.Width, v.Height)
		}
	}
	return nil
}

// prepare replaces dst with an empty directory. The parent is not created.
func prepare(dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		if err := os.RemoveAll(dst); err != nil {
			return fail(CodeDirectoryCreateFailed, "", err, "removing existing %s", dst)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fail(CodeDirectoryCreateFailed, "", err, "inspecting %s", dst)
	}
	if err := os.Mkdir(dst, 0777); err != nil {
		return fail(CodeDirectoryCreateFailed, "", err, "creating %s", dst)
	}
	return nil
}

// stage creates a private holding directory next to dst and an empty staging
// directory inside it. The staging directory gets the same permissions a
// plain os.Mkdir of dst would.
func stage(dst string) (holder, dir string, err error) {
	holder, err = os.MkdirTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-")
	if err != nil {
		return "", "", fail(CodeDirectoryCreateFailed, "", err, "creating staging directory for %s", dst)
	}
	dir = filepath.Join(holder, "next")
	if err := os.Mkdir(dir, 0777); err != nil {
		_ = os.RemoveAll(holder)
		return "", "", fail(CodeDirectoryCreateFailed, "", err, "creating staging directory for %s", dst)
	}
	return holder, dir, nil
}

// rename is swapped out by tests.
var rename = os.Rename

// commit swaps the staging directory into place. An existing dst is moved
// into the holding directory first and restored if the swap fails.
func commit(dir, dst string) error {
	var (
		previous = filepath.Join(filepath.Dir(dir), "previous")
		moved    bool
	)
	if _, err := os.Lstat(dst); err == nil {
		if err := rename(dst, previous); err != nil {
			return fail(CodeDirectoryCreateFailed, "", err, "moving aside existing %s", dst)
		}
		moved = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fail(CodeDirectoryCreateFailed, "", err, "inspecting %s", dst)
	}
	if err := rename(dir, dst); err != nil {
		if moved {
			if restoreErr := rename(previous, dst); restoreErr != nil {
				err = errors.Join(err, fmt.Errorf("restoring %s: %w", dst, restoreErr))
			}
		}
		return fail(CodeDirectoryCreateFailed, "", err, "moving staging directory to %s", dst)
	}
	return nil
}

// createManifest is swapped out by tests.
var createManifest = os.Create

func writeManifest(path string, c Catalog) error {
	f, err := createManifest(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := c.WriteManifest(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (g Generator) writeImages(ctx context.Context, dir string, variants []Resolved, src image.Image) error {
	var (
		log   = g.logger()
		cache = renderCache{}
	)
	write := func(ctx context.Context, v Resolved) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generation cancelled before %s: %w", v.Filename, err)
		}
		data, err := cache.get(image.Pt(v.Width, v.Height), func() ([]byte, error) {
			return g.render(src, v)
		})
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, v.Filename), data, 0666); err != nil {
			return fail(CodeImageEncodeFailed, v.Filename, err, "writing image")
		}
		log.Debug("wrote image", "file", v.Filename, "width", v.Width, "height", v.Height)
		return nil
	}
	workers := g.workers(len(variants))
	if workers < 2 {
		for _, v := range variants {
			if err := write(ctx, v); err != nil {
				return err
			}
		}
		return nil
	}
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, v := range variants {
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			return write(gctx, v)
		})
	}
	return group.Wait()
}

// render resamples and encodes the source for a single variant.
func (g Generator) render(src image.Image, v Resolved) ([]byte, error) {
	img, err := g.resampler().Resample(src, v.Width, v.Height)
	if err != nil {
		return nil, fail(CodeImageResampleFailed, v.Filename, err, "resampling to %dx%d", v.Width, v.Height)
	}
	if got := img.Bounds().Size(); got != image.Pt(v.Width, v.Height) {
		return nil, fail(CodeImageResampleFailed, v.Filename, nil, "resampled to %dx%d, want %dx%d", got.X, got.Y, v.Width, v.Height)
	}
	var buf bytes.Buffer
	if err := g.encoder().Encode(&buf, img); err != nil {
		return nil, fail(CodeImageEncodeFailed, v.Filename, err, "encoding image")
	}
	return buf.Bytes(), nil
}

// renderCache renders each pixel size once, however many variants share it.
type renderCache struct {
	mu      sync.Mutex
	entries map[image.Point]*rendered
}

type rendered struct {
	once sync.Once
	data []byte
	err  error
}

func (c *renderCache) get(size image.Point, render func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[image.Point]*rendered)
	}
	r, ok := c.entries[size]
	if !ok {
		r = &rendered{}
		c.entries[size] = r
	}
	c.mu.Unlock()
	r.once.Do(func() {
		r.data, r.err = render()
	})
	return r.data, r.err
}
