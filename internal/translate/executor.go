package translate

import (
	"fmt"

	"github.com/backmassage/rasterconv/internal/planner"
	"github.com/backmassage/rasterconv/internal/raster"
)

// Execute issues the single translate call for plan against the already-open
// source dataset. The raster library writes plan.OutputPath.
func Execute(ds raster.Dataset, plan *planner.FilePlan) error {
	if len(plan.Scale) != len(plan.Bands) {
		return fmt.Errorf("plan for %s has %d scale entries for %d bands", plan.InputPath, len(plan.Scale), len(plan.Bands))
	}
	return ds.Translate(plan.OutputPath, Build(plan))
}
