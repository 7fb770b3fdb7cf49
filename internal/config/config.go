// Package config parses the iconset command configuration.
package config

import (
	"errors"
	"flag"
	"fmt"
	"runtime"
	"strings"

	"git.sr.ht/~jackmordaunt/iconset"
)

// Config holds the iconset command configuration. Environment variables
// provide defaults that flags override.
type Config struct {
	// Source is the 1024x1024 source image. When empty, icon.png is searched
	// for below Root.
	Source string `env:"ICONSET_SOURCE"`
	Root   string `env:"ICONSET_ROOT" envDefault:"."`
	// Output is the icon set directory to (re)create.
	Output   string         `env:"ICONSET_OUTPUT" envDefault:"AppIcon.appiconset"`
	Families iconset.Family `env:"ICONSET_FAMILIES" envDefault:"phone"`
	// Catalog replaces the built in catalog when set.
	Catalog   string `env:"ICONSET_CATALOG"`
	Resampler string `env:"ICONSET_RESAMPLER" envDefault:"lanczos3"`
	Workers   int    `env:"ICONSET_WORKERS" envDefault:"1"`
	Atomic    bool   `env:"ICONSET_ATOMIC"`

	// Desktop extras.
	ICNS     string `env:"ICONSET_ICNS"`
	ICO      string `env:"ICONSET_ICO"`
	Syso     string `env:"ICONSET_SYSO"`
	SysoArch string `env:"ICONSET_SYSO_ARCH"`
	ISO      string `env:"ICONSET_ISO"`

	Verbose bool `env:"ICONSET_VERBOSE"`
	Quiet   bool `env:"ICONSET_QUIET"`
	NoColor bool `env:"NO_COLOR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.SysoArch == "" {
		cfg.SysoArch = runtime.GOARCH
	}
	fs.StringVar(&cfg.Source, "src", cfg.Source, "source image, 1024x1024 png (default: icon.png found below -root)")
	fs.StringVar(&cfg.Root, "root", cfg.Root, "directory searched for icon.png when -src is empty")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "icon set directory to generate; its parent must exist")
	fs.Var(&cfg.Families, "families", "comma separated device families: phone, pad, watch, desktop, car, all")
	fs.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "catalog file to use instead of the built in one")
	fs.StringVar(&cfg.Resampler, "resampler", cfg.Resampler, "resampling kernel")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "variants rendered concurrently")
	fs.BoolVar(&cfg.Atomic, "atomic", cfg.Atomic, "replace the icon set only when every file was written")
	fs.StringVar(&cfg.ICNS, "icns", cfg.ICNS, "also write a macOS .icns file")
	fs.StringVar(&cfg.ICO, "ico", cfg.ICO, "also write a Windows .ico file")
	fs.StringVar(&cfg.Syso, "syso", cfg.Syso, "also write a .syso icon resource (requires -ico)")
	fs.StringVar(&cfg.SysoArch, "arch", cfg.SysoArch, "architecture of the .syso resource")
	fs.StringVar(&cfg.ISO, "iso", cfg.ISO, "also pack the icon set into an ISO image in this directory")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log every file written")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "only log errors")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable coloured output")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Output) == "" {
		return errors.New("out is required")
	}
	if !cfg.Families.Valid() {
		return errors.New("families is required")
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Syso != "" && cfg.ICO == "" {
		return errors.New("syso requires ico")
	}
	return nil
}
