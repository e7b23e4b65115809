// Package raster describes the small slice of the raster library that
// rasterconv relies on: opening datasets, reading band statistics, looking up
// drivers and issuing a single translate call.
//
// Everything computational (decoding, statistics, rescaling, encoding) lives
// behind [Engine]. The production implementation is in the gdal subpackage;
// rastertest provides an in-memory fake for tests.
package raster

import "strings"

// Native is the format and pixel-type name meaning "keep what the source has".
const Native = "Native"

// IsNative reports whether name selects the source dataset's own format or
// pixel type. The comparison is case-insensitive.
func IsNative(name string) bool {
	return strings.EqualFold(name, Native)
}

// Statistics holds the per-band values reported by the raster library.
type Statistics struct {
	Min  float64
	Max  float64
	Mean float64
	Std  float64
}

// DriverInfo is the driver metadata needed to name output files.
type DriverInfo struct {
	Name      string // Short driver name, e.g. "GTiff".
	Raster    bool   // Driver advertises raster capability.
	Extension string // Primary file extension without dot; may be empty.
}

// Dataset is an open raster dataset. Band indices are 1-based.
type Dataset interface {
	BandCount() int
	BandDataType(band int) string
	Statistics(band int) (Statistics, error)
	Driver() DriverInfo
	// Translate writes a converted copy of the dataset to dst using
	// gdal_translate style switches.
	Translate(dst string, switches []string) error
	Close() error
}

// Engine opens datasets and looks up drivers by name.
type Engine interface {
	Open(path string) (Dataset, error)
	// Driver returns the named driver. ok is false when no such driver is
	// registered.
	Driver(name string) (info DriverInfo, ok bool)
}
