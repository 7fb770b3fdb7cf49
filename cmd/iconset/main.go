// iconset generates an Xcode app icon set from a single 1024x1024 image.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"git.sr.ht/~jackmordaunt/iconset"
	"git.sr.ht/~jackmordaunt/iconset/internal/config"
	"git.sr.ht/~jackmordaunt/iconset/internal/logx"
	"git.sr.ht/~jackmordaunt/iconset/internal/util"
	"git.sr.ht/~jackmordaunt/iconset/rsrc"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("error: %v", err)
	}
	log := logx.New(os.Stderr, &logx.Options{
		Level:   logx.LevelFromFlags(cfg.Verbose, cfg.Quiet),
		NoColor: cfg.NoColor,
	})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, log); err != nil {
		stop()
		config.Exitf("error: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	catalog, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}
	plan, err := iconset.ResolveCatalog(catalog, cfg.Families)
	if err != nil {
		return err
	}
	log.Info("resolved variants", "families", cfg.Families.String(), "count", len(plan.Variants))
	source, err := findSource(cfg)
	if err != nil {
		return err
	}
	img, err := iconset.OpenSource(source)
	if err != nil {
		return err
	}
	log.Info("loaded source", "file", source)
	resampler, err := iconset.ResamplerByName(cfg.Resampler)
	if err != nil {
		return err
	}
	g := iconset.Generator{
		Resampler: resampler,
		Logger:    log,
		Workers:   cfg.Workers,
		Atomic:    cfg.Atomic,
	}
	if err := g.Generate(ctx, cfg.Output, plan.Variants, img, plan.Info); err != nil {
		return err
	}
	log.Info("icon set generated", "path", cfg.Output)
	return extras(cfg, img, log)
}

func loadCatalog(path string) (iconset.Catalog, error) {
	if path == "" {
		return iconset.LoadCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return iconset.Catalog{}, &iconset.Error{
			Code:    iconset.CodeCatalogUnavailable,
			Message: fmt.Sprintf("opening %s", path),
			Err:     err,
		}
	}
	defer f.Close()
	return iconset.ParseCatalog(f)
}

// findSource returns the configured source, or the first icon.png below the
// root, ignoring the output directory.
func findSource(cfg config.Config) (string, error) {
	if cfg.Source != "" {
		return cfg.Source, nil
	}
	icon, err := util.Finder{
		Root: cfg.Root,
		Skip: []string{".git", filepath.Base(cfg.Output)},
	}.Find("icon.png")
	if err != nil {
		return "", fmt.Errorf("finding icon: %w", err)
	}
	if icon == "" {
		return "", fmt.Errorf("icon not found: specify -src or place icon.png below %s", cfg.Root)
	}
	return icon, nil
}

// extras writes the optional desktop outputs.
func extras(cfg config.Config, img image.Image, log *slog.Logger) error {
	if cfg.ICNS != "" {
		if err := iconset.WriteICNS(cfg.ICNS, img); err != nil {
			return fmt.Errorf("writing icns: %w", err)
		}
		log.Info("wrote icns", "file", cfg.ICNS)
	}
	if cfg.ICO != "" {
		if err := iconset.WriteICO(cfg.ICO, img); err != nil {
			return fmt.Errorf("writing ico: %w", err)
		}
		log.Info("wrote ico", "file", cfg.ICO)
	}
	if cfg.Syso != "" {
		if err := iconset.WriteSyso(cfg.Syso, cfg.ICO, rsrc.Arch(cfg.SysoArch)); err != nil {
			return fmt.Errorf("writing syso: %w", err)
		}
		log.Info("wrote syso", "file", cfg.Syso, "arch", cfg.SysoArch)
	}
	if cfg.ISO != "" {
		path, err := iconset.DiskImage(cfg.Output, cfg.ISO, "")
		if err != nil {
			return fmt.Errorf("writing disk image: %w", err)
		}
		log.Info("wrote disk image", "file", path)
	}
	return nil
}
