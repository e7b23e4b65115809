// Package probe inspects an open raster dataset once per file: driver, band
// count, per-band pixel type and exact per-band statistics. The result feeds
// the planner and the per-file log output.
package probe
