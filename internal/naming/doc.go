// Package naming resolves output file names: the file extension a raster
// driver writes, the converted-file naming rules for single-file and
// directory runs, and detection of outputs claimed by more than one input.
package naming
