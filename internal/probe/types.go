package probe

import "github.com/backmassage/rasterconv/internal/raster"

// BandInfo holds the properties of a single band. Index is 1-based.
type BandInfo struct {
	Index    int
	DataType string
	Stats    raster.Statistics
}

// ProbeResult is everything rasterconv reads from a source dataset.
type ProbeResult struct {
	Path   string
	Driver raster.DriverInfo
	Bands  []BandInfo
}

// BandCount returns the number of raster bands.
func (p *ProbeResult) BandCount() int {
	return len(p.Bands)
}

// NativeType returns the pixel type of band 1. All bands are assumed to share
// it; see MixedTypes.
func (p *ProbeResult) NativeType() string {
	if len(p.Bands) == 0 {
		return ""
	}
	return p.Bands[0].DataType
}

// MixedTypes reports whether any band's pixel type differs from band 1.
func (p *ProbeResult) MixedTypes() bool {
	for _, b := range p.Bands {
		if b.DataType != p.Bands[0].DataType {
			return true
		}
	}
	return false
}
