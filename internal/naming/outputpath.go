package naming

import (
	"path/filepath"
	"strings"
)

// auxExtension marks sidecar metadata files (e.g. GDAL .aux.xml) that are
// never converted.
const auxExtension = ".xml"

// IsAuxiliary reports whether path is a sidecar metadata file.
func IsAuxiliary(path string) bool {
	return strings.EqualFold(filepath.Ext(path), auxExtension)
}

// Stem returns the base name of path without its final extension. A dotfile
// such as ".hidden" keeps its full name.
func Stem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}

// SingleOutputPath is the default output for a single input file when no
// output path is given:
//
//	<input dir>/converted.<ext>
func SingleOutputPath(input, ext string) string {
	return filepath.Join(filepath.Dir(input), "converted."+ext)
}

// BatchOutputPath is the output for one file of a directory run:
//
//	<output dir>/<stem>_converted.<ext>
func BatchOutputPath(input, outputDir, ext string) string {
	return filepath.Join(outputDir, Stem(input)+"_converted."+ext)
}
