package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Current          int
	Converted        int
	Planned          int // Dry-run jobs planned but not written.
	Published        int
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// SizeDelta returns the aggregate byte difference between outputs and inputs.
// Positive means outputs grew.
func (s *RunStats) SizeDelta() int64 {
	return s.TotalOutputBytes - s.TotalInputBytes
}
