package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/montanaflynn/stats"

	"github.com/backmassage/rasterconv/internal/config"
	"github.com/backmassage/rasterconv/internal/display"
	"github.com/backmassage/rasterconv/internal/logging"
	"github.com/backmassage/rasterconv/internal/probe"
	"github.com/backmassage/rasterconv/internal/raster"
	"github.com/backmassage/rasterconv/internal/term"
)

// fileRow holds the probed per-file data for the analysis table.
type fileRow struct {
	Name   string
	Driver string
	Bands  int
	Type   string // Band 1 type; "*" suffix when bands differ.
	Min    float64
	Max    float64
}

// Span is the widest observed value interval across all bands.
func (r fileRow) Span() float64 { return r.Max - r.Min }

// Analyze probes every input file and prints a table of driver, band count,
// pixel type and observed value range, flagging files whose value span is
// an outlier for the batch. Nothing is written. Files that cannot be opened
// are skipped with a warning.
func Analyze(ctx context.Context, cfg *config.Config, eng raster.Engine, log *logging.Logger) error {
	files, err := collectInputs(cfg.Input)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn("No files found in %s", cfg.Input)
		return nil
	}
	log.Info("Analyzing %d files in %s", len(files), cfg.Input)

	var rows []fileRow
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("Interrupted")
			return err
		}
		row, err := analyzeFile(eng, path)
		if err != nil {
			log.Warn("Skip (cannot probe): %s: %v", filepath.Base(path), err)
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		log.Warn("No files could be probed")
		return nil
	}

	spans := make([]float64, len(rows))
	for i, r := range rows {
		spans[i] = r.Span()
	}
	bounds := computeBounds(spans)

	fmt.Fprintln(os.Stdout)
	printAnalysisTable(os.Stdout, rows, bounds)
	printAnalysisSummary(log, rows, bounds)
	return nil
}

func analyzeFile(eng raster.Engine, path string) (fileRow, error) {
	ds, err := eng.Open(path)
	if err != nil {
		return fileRow{}, err
	}
	defer ds.Close()

	pr, err := probe.Probe(ds, path)
	if err != nil {
		return fileRow{}, err
	}
	row := fileRow{
		Name:   filepath.Base(path),
		Driver: pr.Driver.Name,
		Bands:  pr.BandCount(),
		Type:   pr.NativeType(),
		Min:    pr.Bands[0].Stats.Min,
		Max:    pr.Bands[0].Stats.Max,
	}
	if pr.MixedTypes() {
		row.Type += "*"
	}
	for _, b := range pr.Bands[1:] {
		row.Min = min(row.Min, b.Stats.Min)
		row.Max = max(row.Max, b.Stats.Max)
	}
	return row, nil
}

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierLo float64 // Q1 - 1.5*IQR
	outlierHi float64 // Q3 + 1.5*IQR
	extremeLo float64 // Q1 - 3.0*IQR
	extremeHi float64 // Q3 + 3.0*IQR
	valid     bool
}

func computeBounds(vals []float64) iqrBounds {
	if len(vals) < 4 {
		return iqrBounds{}
	}
	q, err := stats.Quartile(stats.Float64Data(vals))
	if err != nil {
		return iqrBounds{}
	}
	iqr := q.Q3 - q.Q1
	return iqrBounds{
		q1:        q.Q1,
		q3:        q.Q3,
		outlierLo: q.Q1 - 1.5*iqr,
		outlierHi: q.Q3 + 1.5*iqr,
		extremeLo: q.Q1 - 3.0*iqr,
		extremeHi: q.Q3 + 3.0*iqr,
		valid:     iqr > 0,
	}
}

// classify returns "" (normal), "outlier", or "extreme" for a value.
func (b *iqrBounds) classify(v float64) string {
	if !b.valid {
		return ""
	}
	if v < b.extremeLo || v > b.extremeHi {
		return "extreme"
	}
	if v < b.outlierLo || v > b.outlierHi {
		return "outlier"
	}
	return ""
}

func printAnalysisTable(w io.Writer, rows []fileRow, bounds iqrBounds) {
	nameW, drvW, typeW, rangeW := len("File"), len("Driver"), len("Type"), len("Range")
	for _, r := range rows {
		nameW = max(nameW, utf8.RuneCountInString(r.Name))
		drvW = max(drvW, len(r.Driver))
		typeW = max(typeW, len(r.Type))
		rangeW = max(rangeW, len(display.FormatRange(r.Min, r.Max)))
	}
	nameW = min(nameW, 50)

	header := fmt.Sprintf("  %-*s  %-*s  %5s  %-*s  %-*s",
		nameW, "File", drvW, "Driver", "Bands", typeW, "Type", rangeW, "Range")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+strings.Repeat("─", len(header)-2))

	for _, r := range rows {
		name := truncateName(r.Name, nameW)
		class := bounds.classify(r.Span())
		// Pad before coloring so escape bytes do not count toward the width.
		rangeCell := colorPad(display.FormatRange(r.Min, r.Max), rangeW, class)
		fmt.Fprintf(w, "  %-*s  %-*s  %5d  %-*s  %s  %s\n",
			nameW, name, drvW, r.Driver, r.Bands, typeW, r.Type, rangeCell, formatFlag(class))
	}
	fmt.Fprintln(w)
}

func printAnalysisSummary(log *logging.Logger, rows []fileRow, bounds iqrBounds) {
	var outliers, extremes, mixed int
	for _, r := range rows {
		switch bounds.classify(r.Span()) {
		case "extreme":
			extremes++
		case "outlier":
			outliers++
		}
		if strings.HasSuffix(r.Type, "*") {
			mixed++
		}
	}

	log.Info("Analyzed %d files", len(rows))
	if bounds.valid {
		log.Info("  Value span IQR: %g - %g (outlier < %g or > %g)",
			bounds.q1, bounds.q3, bounds.outlierLo, bounds.outlierHi)
	}
	if mixed > 0 {
		log.Warn("  %d file(s) with mixed band types [*]; Native uses band 1", mixed)
	}
	if outliers > 0 {
		log.Warn("  %d outlier(s) flagged [*]", outliers)
	}
	if extremes > 0 {
		log.Error("  %d extreme outlier(s) flagged [!]", extremes)
	}
	if outliers == 0 && extremes == 0 {
		log.Success("  No outliers detected")
	}
}

// truncateName shortens name to at most width runes, marking the cut with
// an ellipsis. fmt pads by runes, so widths here count runes too.
func truncateName(name string, width int) string {
	if utf8.RuneCountInString(name) <= width {
		return name
	}
	runes := []rune(name)
	return string(runes[:width-1]) + "…"
}

func formatFlag(class string) string {
	switch class {
	case "extreme":
		return term.Paint(term.Error, "[!]")
	case "outlier":
		return term.Paint(term.Warn, "[*]")
	default:
		return ""
	}
}

func colorPad(s string, width int, class string) string {
	padded := fmt.Sprintf("%-*s", width, s)
	switch class {
	case "extreme":
		return term.Paint(term.Error, padded)
	case "outlier":
		return term.Paint(term.Warn, padded)
	default:
		return padded
	}
}
