package planner

import "github.com/backmassage/rasterconv/internal/raster"

// Request carries the user-facing options of one conversion job. Format and
// DataType may be raster.Native. A nil Range selects the default range of the
// output pixel type; an empty Bands selects every band.
type Request struct {
	Format   string
	DataType string
	Bands    []int
	Range    *raster.Range
}

// ScaleParam maps the observed range of one band onto the output range by
// linear interpolation.
type ScaleParam struct {
	SrcMin float64
	SrcMax float64
	DstMin float64
	DstMax float64
}

// FilePlan holds every decision for converting a single file. It is produced
// by BuildPlan and consumed by the translate package. Scale has one entry per
// element of Bands, in the same order.
type FilePlan struct {
	InputPath  string
	OutputPath string

	Format     string // Output driver short name, e.g. "GTiff".
	DataType   string // Resolved pixel type name, e.g. "UInt8".
	OutputType string // Library pixel type for -ot, e.g. "Byte".

	Range raster.Range
	Bands []int
	Scale []ScaleParam

	// Notes are advisory messages for the log (e.g. mixed band types).
	Notes []string
}
