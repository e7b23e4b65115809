// Package rastertest provides an in-memory raster.Engine for tests. Datasets
// are registered by path with fixed band statistics; translate calls are
// recorded and produce a small placeholder file at the destination.
package rastertest

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/backmassage/rasterconv/internal/raster"
)

// ErrNotRegistered is returned by Open for paths with no registered dataset.
var ErrNotRegistered = errors.New("rastertest: no dataset registered for path")

// Band is one fake band.
type Band struct {
	DataType string
	Stats    raster.Statistics
	StatsErr error
}

// Dataset describes a fake dataset registered with an Engine.
type Dataset struct {
	Driver string
	Bands  []Band
}

// Translation records one Translate call.
type Translation struct {
	Src      string
	Dst      string
	Switches []string
}

// Engine is a fake raster.Engine. The zero value has no drivers; use NewEngine.
type Engine struct {
	mu           sync.Mutex
	drivers      map[string]raster.DriverInfo
	datasets     map[string]Dataset
	opened       []string
	closed       int
	translations []Translation
	// TranslateErr, when set, is returned by every Translate call.
	TranslateErr error
	// PartialWrite makes a failing Translate leave a truncated file at the
	// destination first, as a driver that fails mid-write does.
	PartialWrite bool
}

// NewEngine returns an Engine preloaded with a handful of common drivers.
// COG deliberately declares no extension, matching GDAL's metadata.
func NewEngine() *Engine {
	e := &Engine{
		drivers:  make(map[string]raster.DriverInfo),
		datasets: make(map[string]Dataset),
	}
	for _, d := range []raster.DriverInfo{
		{Name: "GTiff", Raster: true, Extension: "tif"},
		{Name: "COG", Raster: true},
		{Name: "PNG", Raster: true, Extension: "png"},
		{Name: "JPEG", Raster: true, Extension: "jpg"},
		{Name: "HFA", Raster: true, Extension: "img"},
		{Name: "MEM", Raster: true},
		{Name: "ESRI Shapefile", Raster: false, Extension: "shp"},
	} {
		e.drivers[d.Name] = d
	}
	return e
}

// AddDriver registers or replaces a driver.
func (e *Engine) AddDriver(d raster.DriverInfo) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drivers[d.Name] = d
}

// Add registers a dataset at path.
func (e *Engine) Add(path string, ds Dataset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.datasets[path] = ds
}

// Opened returns the paths passed to Open, in call order.
func (e *Engine) Opened() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.opened...)
}

// Closed returns how many dataset handles have been closed.
func (e *Engine) Closed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Translations returns the recorded Translate calls, in call order.
func (e *Engine) Translations() []Translation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Translation(nil), e.translations...)
}

// Open implements raster.Engine.
func (e *Engine) Open(path string) (raster.Dataset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opened = append(e.opened, path)
	ds, ok := e.datasets[path]
	if !ok {
		return nil, fmt.Errorf("open %q: %w", path, ErrNotRegistered)
	}
	drv, ok := e.drivers[ds.Driver]
	if !ok {
		drv = raster.DriverInfo{Name: ds.Driver, Raster: true}
	}
	return &handle{engine: e, path: path, def: ds, driver: drv}, nil
}

// Driver implements raster.Engine.
func (e *Engine) Driver(name string) (raster.DriverInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.drivers[name]
	return d, ok
}

type handle struct {
	engine *Engine
	path   string
	def    Dataset
	driver raster.DriverInfo
	closed bool
}

func (h *handle) BandCount() int { return len(h.def.Bands) }

func (h *handle) band(i int) (Band, error) {
	if i < 1 || i > len(h.def.Bands) {
		return Band{}, fmt.Errorf("band %d out of range 1..%d", i, len(h.def.Bands))
	}
	return h.def.Bands[i-1], nil
}

func (h *handle) BandDataType(i int) string {
	b, err := h.band(i)
	if err != nil {
		return ""
	}
	return b.DataType
}

func (h *handle) Statistics(i int) (raster.Statistics, error) {
	b, err := h.band(i)
	if err != nil {
		return raster.Statistics{}, err
	}
	if b.StatsErr != nil {
		return raster.Statistics{}, b.StatsErr
	}
	return b.Stats, nil
}

func (h *handle) Driver() raster.DriverInfo { return h.driver }

func (h *handle) Translate(dst string, switches []string) error {
	h.engine.mu.Lock()
	h.engine.translations = append(h.engine.translations, Translation{
		Src:      h.path,
		Dst:      dst,
		Switches: append([]string(nil), switches...),
	})
	err := h.engine.TranslateErr
	partial := h.engine.PartialWrite
	h.engine.mu.Unlock()
	if err != nil {
		if partial {
			os.WriteFile(dst, []byte("rast"), 0o644)
		}
		return err
	}
	return os.WriteFile(dst, []byte("rastertest"), 0o644)
}

func (h *handle) Close() error {
	if h.closed {
		return errors.New("rastertest: dataset closed twice")
	}
	h.closed = true
	h.engine.mu.Lock()
	h.engine.closed++
	h.engine.mu.Unlock()
	return nil
}

// Uniform returns n bands of the same type whose statistics are produced by
// stats(i) for 1-based band i.
func Uniform(dataType string, n int, stats func(i int) raster.Statistics) []Band {
	bands := make([]Band, n)
	for i := range bands {
		bands[i] = Band{DataType: dataType, Stats: stats(i + 1)}
	}
	return bands
}
