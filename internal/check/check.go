// Package check provides driver diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) against the raster library's registry.
package check

import (
	"errors"
	"fmt"

	"github.com/backmassage/rasterconv/internal/config"
	"github.com/backmassage/rasterconv/internal/naming"
	"github.com/backmassage/rasterconv/internal/raster"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrGTiffMissing = errors.New("GTiff driver not registered (is GDAL built with GeoTIFF support?)")
	ErrBadFormat    = errors.New("output format cannot be written")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// commonDrivers is the list reported by --check, in display order.
var commonDrivers = []string{
	"GTiff", "COG", "PNG", "JPEG", "JP2OpenJPEG", "HFA", "ENVI", "netCDF", "GPKG", "WEBP", "VRT",
}

// RunCheck reports which common raster drivers are registered and the
// extension each one writes. It returns false when GTiff is missing.
func RunCheck(eng raster.Engine, log Logger) bool {
	log.Info("=== Driver Check ===")

	ok := true
	for _, name := range commonDrivers {
		drv, found := eng.Driver(name)
		switch {
		case !found:
			if name == "GTiff" {
				log.Error("%-12s missing", name)
				ok = false
			} else {
				log.Warn("%-12s not available", name)
			}
		case !drv.Raster:
			log.Warn("%-12s registered without raster support", name)
		default:
			ext, err := naming.Extension(eng, "", name)
			if err != nil {
				log.Warn("%-12s raster, no output extension", name)
				continue
			}
			log.Success("%-12s .%s", name, ext)
		}
	}
	return ok
}

// CheckDeps is the pre-pipeline validation: GTiff must be registered and a
// named output format must resolve to a writable raster extension. Native
// formats are resolved per file later.
func CheckDeps(cfg *config.Config, eng raster.Engine) error {
	if drv, ok := eng.Driver("GTiff"); !ok || !drv.Raster {
		return ErrGTiffMissing
	}
	if raster.IsNative(cfg.Format) {
		return nil
	}
	if _, err := naming.Extension(eng, "", cfg.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrBadFormat, err)
	}
	return nil
}
