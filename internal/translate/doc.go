// Package translate builds gdal_translate style switches from a FilePlan and
// hands them to the raster library's translate call. The same argument
// skeleton is printed for dry runs, so a logged command line can be replayed
// with the gdal_translate binary.
package translate
