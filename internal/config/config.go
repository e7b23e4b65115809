// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Defaults keep the source format and pixel type, matching the
// behavior of running the tool with only -i.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/backmassage/rasterconv/internal/publish"
	"github.com/backmassage/rasterconv/internal/raster"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths.
	Input  string // File or directory (-i). Required unless CheckOnly.
	Output string // File, directory, or empty (-o).

	// Conversion options.
	Format   string        // Output driver short name (-of). Default: "Native".
	DataType string        // Output pixel type name (-ot). Default: "Native".
	Bands    []int         // 1-based band indices (-b). Empty means all bands.
	Range    *raster.Range // Explicit output range (-or). Nil means by type.

	// Behavior flags.
	DryRun  bool
	Analyze bool // Print a per-file band report instead of converting.

	// Publishing (optional).
	PublishURL     string // gs://bucket/prefix, s3://bucket/prefix, sftp://user@host/dir or file:///dir.
	PublishRegion  string // S3 region. Default: $AWS_REGION at parse time.
	GCSCredentials string // Service account JSON file for GCS.
	SFTPKey        string // Private key file for sftp:// (--sftp-key).
	KnownHosts     string // known_hosts for sftp://; empty uses ~/.ssh/known_hosts.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Format:    raster.Native,
		DataType:  raster.Native,
		ColorMode: ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks field values that flag parsing cannot. Unknown driver names
// are left to the extension resolver, which has the driver registry.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if !raster.IsNative(c.DataType) && !raster.IsKnownType(c.DataType) {
		return fmt.Errorf("%w: %q (use Native or one of %s)",
			raster.ErrUnknownType, c.DataType, strings.Join(raster.TypeNames(), ", "))
	}

	for _, b := range c.Bands {
		if b < 1 {
			return fmt.Errorf("band indices are 1-based (got %d)", b)
		}
	}

	if c.PublishURL != "" {
		if _, err := publish.ParseURL(c.PublishURL); err != nil {
			return err
		}
	}

	if c.CheckOnly {
		return nil
	}
	if c.Input == "" {
		return errors.New("need an input file or directory (-i)")
	}
	return nil
}

// OutputInsideInput reports whether outputAbs is inside (or equal to)
// inputAbs. Both arguments must be absolute, symlink-resolved paths. A later
// run over the same input directory would pick up the converted files.
func OutputInsideInput(inputAbs, outputAbs string) bool {
	sep := string(filepath.Separator)
	return outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep)
}
