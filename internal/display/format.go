// Package display formats values for human-readable log and banner output.
package display

import (
	"fmt"
	"strconv"
)

var sizeUnits = []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatBytes returns a binary-prefixed file size with one decimal, e.g.
// "700.0 MiB". Sizes under 1 KiB are printed exactly.
func FormatBytes(n int64) string {
	if n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}
	v := float64(n) / 1024
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, sizeUnits[i])
}

// FormatBytesWithSign renders a size change for the run summary, e.g.
// "- 1.2 GiB" when outputs are smaller than inputs.
func FormatBytesWithSign(n int64) string {
	switch {
	case n > 0:
		return "+ " + FormatBytes(n)
	case n < 0:
		return "- " + FormatBytes(-n)
	}
	return FormatBytes(0)
}

// FormatRange renders a closed value interval, e.g. "[0, 255]". Values use
// the shortest exact representation.
func FormatRange(lo, hi float64) string {
	return "[" + strconv.FormatFloat(lo, 'f', -1, 64) + ", " + strconv.FormatFloat(hi, 'f', -1, 64) + "]"
}
