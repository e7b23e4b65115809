package translate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/rasterconv/internal/planner"
)

// Build returns the switches for one file:
//
//	-of <format> -ot <type> [-b <n>]... [-scale_<i> srcMin srcMax dstMin dstMax]...
//
// Scale switches are numbered by output band position (1-based), so scale
// entry i applies to the i-th selected band.
func Build(plan *planner.FilePlan) []string {
	args := make([]string, 0, 4+2*len(plan.Bands)+5*len(plan.Scale))

	args = append(args, "-of", plan.Format, "-ot", plan.OutputType)

	for _, b := range plan.Bands {
		args = append(args, "-b", strconv.Itoa(b))
	}

	for i, s := range plan.Scale {
		args = append(args,
			fmt.Sprintf("-scale_%d", i+1),
			formatFloat(s.SrcMin),
			formatFloat(s.SrcMax),
			formatFloat(s.DstMin),
			formatFloat(s.DstMax),
		)
	}
	return args
}

// CommandLine renders the equivalent gdal_translate invocation for logs.
// Arguments containing spaces are single-quoted.
func CommandLine(plan *planner.FilePlan) string {
	parts := append([]string{"gdal_translate"}, Build(plan)...)
	parts = append(parts, plan.InputPath, plan.OutputPath)
	for i, p := range parts {
		if strings.ContainsAny(p, " \t") {
			parts[i] = "'" + p + "'"
		}
	}
	return strings.Join(parts, " ")
}

// formatFloat uses the shortest decimal that round-trips, never an
// exponent, so full UInt32 and Int32 bounds print as integers.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
