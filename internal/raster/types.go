package raster

import (
	"errors"
	"sort"
)

// ErrUnknownType is returned for an output pixel type outside the fixed tables.
var ErrUnknownType = errors.New("unknown output pixel type")

// Range is a closed numeric interval [Min, Max].
type Range struct {
	Min float64
	Max float64
}

// typeRanges is the default output range for each recognized pixel type.
// Floating point outputs are normalized to [0, 1].
var typeRanges = map[string]Range{
	"Byte":    {0, 255},
	"UInt8":   {0, 255},
	"UInt16":  {0, 65535},
	"UInt32":  {0, 4294967295},
	"Int16":   {-32768, 32767},
	"Int32":   {-2147483648, 2147483647},
	"Float32": {0, 1},
	"Float64": {0, 1},
}

// outputTypes maps a recognized pixel type name to the name the raster
// library expects for -ot. UInt8 is an alias of Byte.
var outputTypes = map[string]string{
	"Byte":    "Byte",
	"UInt8":   "Byte",
	"UInt16":  "UInt16",
	"UInt32":  "UInt32",
	"Int16":   "Int16",
	"Int32":   "Int32",
	"Float32": "Float32",
	"Float64": "Float64",
}

// TypeRange returns the default output range for a pixel type name.
func TypeRange(name string) (Range, bool) {
	r, ok := typeRanges[name]
	return r, ok
}

// OutputType returns the library pixel type name for name.
func OutputType(name string) (string, bool) {
	t, ok := outputTypes[name]
	return t, ok
}

// IsKnownType reports whether name is one of the eight recognized pixel types.
// Lookups are case-sensitive.
func IsKnownType(name string) bool {
	_, ok := outputTypes[name]
	return ok
}

// TypeNames returns the recognized pixel type names in sorted order.
func TypeNames() []string {
	names := make([]string, 0, len(outputTypes))
	for n := range outputTypes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
