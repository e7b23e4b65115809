package naming

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/backmassage/rasterconv/internal/raster"
	"github.com/backmassage/rasterconv/internal/raster/rastertest"
)

// --- Extension tests ---

func TestExtension_NamedFormats(t *testing.T) {
	eng := rastertest.NewEngine()
	tests := []struct {
		format string
		want   string
	}{
		{"GTiff", "tif"},
		{"PNG", "png"},
		{"JPEG", "jpg"},
		{"HFA", "img"},
		{"COG", "tif"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := Extension(eng, "", tt.format)
			if err != nil {
				t.Fatalf("Extension(%q): %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
	if n := len(eng.Opened()); n != 0 {
		t.Errorf("named formats should not open datasets, opened %d", n)
	}
}

func TestExtension_NativeUsesSourceDriver(t *testing.T) {
	eng := rastertest.NewEngine()
	eng.Add("/data/a.png", rastertest.Dataset{Driver: "PNG"})

	for _, format := range []string{"Native", "native"} {
		got, err := Extension(eng, "/data/a.png", format)
		if err != nil {
			t.Fatalf("Extension(%s): %v", format, err)
		}
		if got != "png" {
			t.Errorf("Extension(%s) = %q, want png", format, got)
		}
	}
	if eng.Closed() != len(eng.Opened()) {
		t.Errorf("opened %d datasets but closed %d", len(eng.Opened()), eng.Closed())
	}
}

func TestExtension_Errors(t *testing.T) {
	eng := rastertest.NewEngine()
	tests := []struct {
		name    string
		format  string
		wantErr error
	}{
		{"unknown driver", "NotADriver", ErrUnknownDriver},
		{"vector driver", "ESRI Shapefile", ErrNotRaster},
		{"no extension", "MEM", ErrNoExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extension(eng, "", tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Extension(%q) error = %v, want %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestExtension_NativeOpenFailure(t *testing.T) {
	eng := rastertest.NewEngine()
	_, err := Extension(eng, "/missing.tif", raster.Native)
	if !errors.Is(err, rastertest.ErrNotRegistered) {
		t.Errorf("error = %v, want ErrNotRegistered", err)
	}
}

// --- Output path tests ---

func TestSingleOutputPath(t *testing.T) {
	got := SingleOutputPath(filepath.Join("data", "in", "a.tif"), "tif")
	want := filepath.Join("data", "in", "converted.tif")
	if got != want {
		t.Errorf("SingleOutputPath = %q, want %q", got, want)
	}
}

func TestBatchOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ext   string
		want  string
	}{
		{"simple", "/in/scene.tif", "jpg", "/out/scene_converted.jpg"},
		{"nested input flattens", "/in/sub/dir/scene.TIF", "tif", "/out/scene_converted.tif"},
		{"multiple dots keep inner", "/in/scene.b4.tif", "png", "/out/scene.b4_converted.png"},
		{"no extension", "/in/scene", "tif", "/out/scene_converted.tif"},
		{"dotfile", "/in/.hidden", "tif", "/out/.hidden_converted.tif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BatchOutputPath(filepath.FromSlash(tt.input), filepath.FromSlash("/out"), tt.ext)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("BatchOutputPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsAuxiliary(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.tif.aux.xml", true},
		{"meta.XML", true},
		{"a.tif", false},
		{"xml", false},
		{"a.xml.tif", false},
	}
	for _, tt := range tests {
		if got := IsAuxiliary(tt.path); got != tt.want {
			t.Errorf("IsAuxiliary(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// --- Collision tests ---

func TestCollisionDetector(t *testing.T) {
	cd := NewCollisionDetector()

	if _, hit := cd.Claim("/in/a/x.tif", "/out/x_converted.tif"); hit {
		t.Fatal("first claim should not collide")
	}
	if _, hit := cd.Claim("/in/a/x.tif", "/out/x_converted.tif"); hit {
		t.Error("re-claim by the same input should not collide")
	}
	owner, hit := cd.Claim("/in/b/x.tif", "/out/x_converted.tif")
	if !hit {
		t.Fatal("second input with the same stem should collide")
	}
	if owner != "/in/a/x.tif" {
		t.Errorf("owner = %q, want /in/a/x.tif", owner)
	}
	if _, hit := cd.Claim("/in/b/y.tif", "/out/y_converted.tif"); hit {
		t.Error("distinct output should not collide")
	}
}
