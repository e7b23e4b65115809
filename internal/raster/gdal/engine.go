// Package gdal implements raster.Engine on top of GDAL through the godal
// binding. It is the only package in rasterconv that links against libgdal.
package gdal

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/backmassage/rasterconv/internal/raster"
)

// GDAL driver metadata keys.
const (
	metaRasterCapability = "DCAP_RASTER"
	metaExtension        = "DMD_EXTENSION"
)

var registerOnce sync.Once

// Engine is a raster.Engine backed by the process-wide GDAL driver registry.
type Engine struct{}

// NewEngine registers all GDAL drivers (once per process) and returns an Engine.
func NewEngine() *Engine {
	registerOnce.Do(godal.RegisterAll)
	return &Engine{}
}

// Open opens path read-only.
func (e *Engine) Open(path string) (raster.Dataset, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return &dataset{ds: ds}, nil
}

// Driver looks up a driver by short name. Vector-only drivers are returned
// with Raster set to false so callers can tell "unknown" from "not raster".
func (e *Engine) Driver(name string) (raster.DriverInfo, bool) {
	if drv, ok := godal.RasterDriver(godal.DriverName(name)); ok {
		return driverInfo(drv), true
	}
	if drv, ok := godal.VectorDriver(godal.DriverName(name)); ok {
		return driverInfo(drv), true
	}
	return raster.DriverInfo{}, false
}

func driverInfo(drv godal.Driver) raster.DriverInfo {
	return raster.DriverInfo{
		Name:      drv.Description(),
		Raster:    drv.Metadata(metaRasterCapability) == "YES",
		Extension: drv.Metadata(metaExtension),
	}
}

type dataset struct {
	ds *godal.Dataset
}

func (d *dataset) BandCount() int {
	return len(d.ds.Bands())
}

func (d *dataset) band(i int) (godal.Band, error) {
	bands := d.ds.Bands()
	if i < 1 || i > len(bands) {
		return godal.Band{}, fmt.Errorf("band %d out of range 1..%d", i, len(bands))
	}
	return bands[i-1], nil
}

func (d *dataset) BandDataType(i int) string {
	b, err := d.band(i)
	if err != nil {
		return ""
	}
	return b.Structure().DataType.String()
}

// Statistics forces an exact computation over every pixel of the band.
func (d *dataset) Statistics(i int) (raster.Statistics, error) {
	b, err := d.band(i)
	if err != nil {
		return raster.Statistics{}, err
	}
	s, err := b.ComputeStatistics()
	if err != nil {
		return raster.Statistics{}, fmt.Errorf("band %d statistics: %w", i, err)
	}
	return raster.Statistics{Min: s.Min, Max: s.Max, Mean: s.Mean, Std: s.Std}, nil
}

func (d *dataset) Driver() raster.DriverInfo {
	return driverInfo(d.ds.Driver())
}

// Translate runs the equivalent of gdal_translate and closes the written
// dataset so it is flushed to disk before returning.
func (d *dataset) Translate(dst string, switches []string) error {
	out, err := d.ds.Translate(dst, switches)
	if err != nil {
		return fmt.Errorf("translate to %q: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %q: %w", dst, err)
	}
	return nil
}

func (d *dataset) Close() error {
	return d.ds.Close()
}
