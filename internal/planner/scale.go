package planner

import (
	"fmt"

	"github.com/backmassage/rasterconv/internal/probe"
	"github.com/backmassage/rasterconv/internal/raster"
)

// BuildScaleParams returns one ScaleParam per entry of bands, in order. Each
// band is remapped from its own observed [min, max] onto the shared target
// range r.
func BuildScaleParams(pr *probe.ProbeResult, r raster.Range, bands []int) ([]ScaleParam, error) {
	params := make([]ScaleParam, len(bands))
	for i, b := range bands {
		if b < 1 || b > len(pr.Bands) {
			return nil, fmt.Errorf("band %d (dataset has %d): %w", b, len(pr.Bands), ErrBandOutOfRange)
		}
		s := pr.Bands[b-1].Stats
		params[i] = ScaleParam{
			SrcMin: s.Min,
			SrcMax: s.Max,
			DstMin: r.Min,
			DstMax: r.Max,
		}
	}
	return params, nil
}
