package probe

import (
	"errors"
	"testing"

	"github.com/backmassage/rasterconv/internal/raster"
	"github.com/backmassage/rasterconv/internal/raster/rastertest"
)

func open(t *testing.T, eng *rastertest.Engine, path string) raster.Dataset {
	t.Helper()
	ds, err := eng.Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	t.Cleanup(func() { ds.Close() })
	return ds
}

func TestProbe_ReadsAllBands(t *testing.T) {
	eng := rastertest.NewEngine()
	eng.Add("/a.tif", rastertest.Dataset{
		Driver: "GTiff",
		Bands: []rastertest.Band{
			{DataType: "UInt16", Stats: raster.Statistics{Min: 10, Max: 200, Mean: 90, Std: 12}},
			{DataType: "UInt16", Stats: raster.Statistics{Min: 0, Max: 4095}},
			{DataType: "UInt16", Stats: raster.Statistics{Min: 5, Max: 6}},
		},
	})

	pr, err := Probe(open(t, eng, "/a.tif"), "/a.tif")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if pr.BandCount() != 3 {
		t.Fatalf("BandCount = %d, want 3", pr.BandCount())
	}
	if pr.Driver.Name != "GTiff" {
		t.Errorf("Driver = %q, want GTiff", pr.Driver.Name)
	}
	if pr.NativeType() != "UInt16" {
		t.Errorf("NativeType = %q, want UInt16", pr.NativeType())
	}
	for i, b := range pr.Bands {
		if b.Index != i+1 {
			t.Errorf("band %d has Index %d", i+1, b.Index)
		}
	}
	if got := pr.Bands[0].Stats; got.Min != 10 || got.Max != 200 || got.Mean != 90 {
		t.Errorf("band 1 stats = %+v", got)
	}
	if pr.MixedTypes() {
		t.Error("uniform bands reported as mixed")
	}
}

func TestProbe_MixedTypes(t *testing.T) {
	pr := &ProbeResult{Bands: []BandInfo{
		{Index: 1, DataType: "Byte"},
		{Index: 2, DataType: "Float32"},
	}}
	if !pr.MixedTypes() {
		t.Error("Byte+Float32 should be mixed")
	}
	if pr.NativeType() != "Byte" {
		t.Errorf("NativeType = %q, want band 1 type Byte", pr.NativeType())
	}
}

func TestProbe_SingleBandNotMixed(t *testing.T) {
	pr := &ProbeResult{Bands: []BandInfo{{Index: 1, DataType: "Int16"}}}
	if pr.MixedTypes() {
		t.Error("single band cannot be mixed")
	}
}

func TestProbe_NoBands(t *testing.T) {
	eng := rastertest.NewEngine()
	eng.Add("/empty.tif", rastertest.Dataset{Driver: "GTiff"})

	_, err := Probe(open(t, eng, "/empty.tif"), "/empty.tif")
	if !errors.Is(err, ErrNoBands) {
		t.Errorf("error = %v, want ErrNoBands", err)
	}
}

func TestProbe_StatisticsError(t *testing.T) {
	boom := errors.New("read failure")
	eng := rastertest.NewEngine()
	eng.Add("/bad.tif", rastertest.Dataset{
		Driver: "GTiff",
		Bands: []rastertest.Band{
			{DataType: "Byte"},
			{DataType: "Byte", StatsErr: boom},
		},
	})

	_, err := Probe(open(t, eng, "/bad.tif"), "/bad.tif")
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped read failure", err)
	}
}
