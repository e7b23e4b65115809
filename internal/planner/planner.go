package planner

import (
	"fmt"

	"github.com/backmassage/rasterconv/internal/probe"
	"github.com/backmassage/rasterconv/internal/raster"
)

// BuildPlan produces a complete FilePlan from a request and probe data. It is
// called once per file, so Native format and type resolve against each
// file's own driver and band 1 type.
//
// Flow:
//  1. Resolve output driver (Native → source driver)
//  2. Resolve pixel type (Native → band 1) and its -ot name
//  3. Resolve output range (explicit or by type)
//  4. Select bands and build per-band scale parameters
func BuildPlan(req Request, pr *probe.ProbeResult) (*FilePlan, error) {
	plan := &FilePlan{InputPath: pr.Path}

	// --- 1. Driver ---
	plan.Format = req.Format
	if raster.IsNative(req.Format) {
		plan.Format = pr.Driver.Name
	}

	// --- 2. Pixel type ---
	plan.DataType = ResolveType(req.DataType, pr)
	outType, ok := raster.OutputType(plan.DataType)
	if !ok {
		return nil, unknownType(plan.DataType)
	}
	plan.OutputType = outType
	if raster.IsNative(req.DataType) && pr.MixedTypes() {
		plan.Notes = append(plan.Notes, fmt.Sprintf(
			"bands have mixed pixel types; every band is written as band 1 type %s", plan.DataType))
	}

	// --- 3. Range ---
	r, err := ResolveRange(plan.DataType, req.Range)
	if err != nil {
		return nil, err
	}
	plan.Range = r

	// --- 4. Bands and scale ---
	plan.Bands, err = SelectBands(req.Bands, pr.BandCount())
	if err != nil {
		return nil, err
	}
	plan.Scale, err = BuildScaleParams(pr, r, plan.Bands)
	if err != nil {
		return nil, err
	}
	return plan, nil
}
