package naming

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backmassage/rasterconv/internal/raster"
)

// Sentinel errors returned by Extension.
var (
	ErrUnknownDriver = errors.New("invalid driver; refer to the GDAL documentation for accepted raster drivers")
	ErrNotRaster     = errors.New("not a raster format")
	ErrNoExtension   = errors.New("driver declares no file extension")
)

// cogExtension is written by the COG driver, whose metadata carries no
// DMD_EXTENSION entry.
const cogExtension = "tif"

// Extension returns the file extension (without dot) written by the driver
// for format. When format is Native the driver of the dataset at path is used
// and the dataset is opened briefly; otherwise path is ignored.
func Extension(eng raster.Engine, path, format string) (string, error) {
	var drv raster.DriverInfo
	if raster.IsNative(format) {
		ds, err := eng.Open(path)
		if err != nil {
			return "", err
		}
		drv = ds.Driver()
		if err := ds.Close(); err != nil {
			return "", fmt.Errorf("close %q: %w", path, err)
		}
	} else {
		d, ok := eng.Driver(format)
		if !ok {
			return "", fmt.Errorf("%q: %w", format, ErrUnknownDriver)
		}
		drv = d
	}

	if !drv.Raster {
		return "", fmt.Errorf("output format %s: %w", drv.Name, ErrNotRaster)
	}
	if strings.EqualFold(format, "COG") || drv.Name == "COG" {
		return cogExtension, nil
	}
	if drv.Extension == "" {
		return "", fmt.Errorf("output format %s: %w", drv.Name, ErrNoExtension)
	}
	return drv.Extension, nil
}
