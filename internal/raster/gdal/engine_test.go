package gdal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/airbusgeo/godal"
)

// writeFixture creates a 4x4 two-band Byte GeoTIFF. Band 1 spans [10, 200],
// band 2 is constant 7.
func writeFixture(t *testing.T, path string) {
	t.Helper()
	NewEngine()
	ds, err := godal.Create(godal.GTiff, path, 2, godal.Byte, 4, 4)
	if err != nil {
		t.Skipf("cannot create GeoTIFF fixture: %v", err)
	}
	b1 := make([]byte, 16)
	b2 := make([]byte, 16)
	for i := range b1 {
		b1[i] = 10
		b2[i] = 7
	}
	b1[15] = 200
	bands := ds.Bands()
	if err := bands[0].Write(0, 0, b1, 4, 4); err != nil {
		t.Fatalf("write band 1: %v", err)
	}
	if err := bands[1].Write(0, 0, b2, 4, 4); err != nil {
		t.Fatalf("write band 2: %v", err)
	}
	if err := ds.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
}

func TestEngine_OpenAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.tif")
	writeFixture(t, path)

	eng := NewEngine()
	ds, err := eng.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ds.Close()

	if got := ds.BandCount(); got != 2 {
		t.Errorf("BandCount = %d, want 2", got)
	}
	if got := ds.BandDataType(1); got != "Byte" {
		t.Errorf("BandDataType(1) = %q, want Byte", got)
	}
	drv := ds.Driver()
	if drv.Name != "GTiff" || !drv.Raster || drv.Extension != "tif" {
		t.Errorf("Driver = %+v, want GTiff raster with tif extension", drv)
	}

	s, err := ds.Statistics(1)
	if err != nil {
		t.Fatalf("Statistics(1): %v", err)
	}
	if s.Min != 10 || s.Max != 200 {
		t.Errorf("band 1 min/max = %v/%v, want 10/200", s.Min, s.Max)
	}
	if _, err := ds.Statistics(3); err == nil {
		t.Error("Statistics(3) on a 2-band dataset should fail")
	}
}

func TestEngine_Driver(t *testing.T) {
	eng := NewEngine()
	if _, ok := eng.Driver("NoSuchDriver"); ok {
		t.Error("unknown driver should not be found")
	}
	png, ok := eng.Driver("PNG")
	if !ok {
		t.Fatal("PNG driver not registered")
	}
	if !png.Raster || png.Extension != "png" {
		t.Errorf("PNG driver = %+v", png)
	}
}

func TestEngine_Translate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.tif")
	writeFixture(t, src)

	eng := NewEngine()
	ds, err := eng.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ds.Close()

	dst := filepath.Join(dir, "out.png")
	switches := []string{"-of", "PNG", "-ot", "Byte", "-b", "1", "-scale_1", "10", "200", "0", "255"}
	if err := ds.Translate(dst, switches); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	fi, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if fi.Size() == 0 {
		t.Error("output file is empty")
	}
}
