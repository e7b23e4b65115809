package probe

import (
	"errors"
	"fmt"

	"github.com/backmassage/rasterconv/internal/raster"
)

// ErrNoBands is returned for datasets without raster bands.
var ErrNoBands = errors.New("dataset has no raster bands")

// Probe reads driver, pixel types and forced exact statistics for every band
// of ds. Statistics are computed for all bands even when only a subset is
// converted, so the per-file report always covers the whole dataset.
func Probe(ds raster.Dataset, path string) (*ProbeResult, error) {
	n := ds.BandCount()
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoBands)
	}

	pr := &ProbeResult{
		Path:   path,
		Driver: ds.Driver(),
		Bands:  make([]BandInfo, n),
	}
	for i := 1; i <= n; i++ {
		stats, err := ds.Statistics(i)
		if err != nil {
			return nil, fmt.Errorf("statistics for band %d of %s: %w", i, path, err)
		}
		pr.Bands[i-1] = BandInfo{
			Index:    i,
			DataType: ds.BandDataType(i),
			Stats:    stats,
		}
	}
	return pr, nil
}
