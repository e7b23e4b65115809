package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backmassage/rasterconv/internal/probe"
	"github.com/backmassage/rasterconv/internal/raster"
)

// ErrBandOutOfRange is returned when a requested band index is outside
// 1..band count.
var ErrBandOutOfRange = errors.New("band index out of range")

// ResolveType returns the output pixel type name. Native resolves to band 1's
// type; mixed-type datasets are not checked here.
func ResolveType(requested string, pr *probe.ProbeResult) string {
	if raster.IsNative(requested) {
		return pr.NativeType()
	}
	return requested
}

// ResolveRange returns explicit when set, otherwise the default range of
// dataType. An explicit range is used as given, whatever the output type.
func ResolveRange(dataType string, explicit *raster.Range) (raster.Range, error) {
	if explicit != nil {
		return *explicit, nil
	}
	r, ok := raster.TypeRange(dataType)
	if !ok {
		return raster.Range{}, unknownType(dataType)
	}
	return r, nil
}

// SelectBands returns the 1-based band list to convert. An empty request
// selects 1..count in order. Requested indices keep their order and may
// repeat.
func SelectBands(requested []int, count int) ([]int, error) {
	if len(requested) == 0 {
		bands := make([]int, count)
		for i := range bands {
			bands[i] = i + 1
		}
		return bands, nil
	}
	bands := make([]int, len(requested))
	for i, b := range requested {
		if b < 1 || b > count {
			return nil, fmt.Errorf("band %d (dataset has %d): %w", b, count, ErrBandOutOfRange)
		}
		bands[i] = b
	}
	return bands, nil
}

func unknownType(name string) error {
	return fmt.Errorf("%q (use one of %s): %w", name, strings.Join(raster.TypeNames(), ", "), raster.ErrUnknownType)
}
