// Package pipeline orchestrates input resolution, per-file conversion, and
// batch summary reporting.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/rasterconv/internal/config"
	"github.com/backmassage/rasterconv/internal/display"
	"github.com/backmassage/rasterconv/internal/logging"
	"github.com/backmassage/rasterconv/internal/naming"
	"github.com/backmassage/rasterconv/internal/planner"
	"github.com/backmassage/rasterconv/internal/probe"
	"github.com/backmassage/rasterconv/internal/publish"
	"github.com/backmassage/rasterconv/internal/raster"
	"github.com/backmassage/rasterconv/internal/translate"
)

// Run is the top-level batch entry point. It resolves jobs, converts each
// one in order, and returns aggregate stats. The first failing job stops the
// batch; its error is returned wrapped with the input path. pub may be nil.
func Run(ctx context.Context, cfg *config.Config, eng raster.Engine, pub publish.Publisher, log *logging.Logger) (RunStats, error) {
	var stats RunStats

	jobs, err := ResolveJobs(eng, cfg)
	if err != nil {
		return stats, err
	}
	stats.Total = len(jobs)

	warnCollisions(log, jobs)
	logBatchHeader(cfg, log, &stats)

	for i, job := range jobs {
		stats.Current = i + 1

		if err := ctx.Err(); err != nil {
			log.Warn("Interrupted")
			return stats, err
		}

		if err := processJob(ctx, cfg, eng, pub, log, job, &stats); err != nil {
			return stats, fmt.Errorf("%s: %w", job.Input, err)
		}
	}

	logSummary(cfg, log, &stats)
	return stats, nil
}

// processJob handles one file: open → probe → plan → translate → publish.
// The dataset is closed before returning on every path.
func processJob(
	ctx context.Context,
	cfg *config.Config,
	eng raster.Engine,
	pub publish.Publisher,
	log *logging.Logger,
	job Job,
	stats *RunStats,
) (err error) {
	log.Info("[%d/%d] %s", stats.Current, stats.Total, filepath.Base(job.Input))

	fi, err := os.Stat(job.Input)
	if err != nil {
		return err
	}

	ds, err := eng.Open(job.Input)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close dataset: %w", cerr)
		}
	}()

	// --- Probe ---
	pr, err := probe.Probe(ds, job.Input)
	if err != nil {
		return err
	}
	logBandStats(cfg, log, pr)

	// --- Plan ---
	plan, err := planner.BuildPlan(job.Request, pr)
	if err != nil {
		return err
	}
	plan.OutputPath = job.Output
	for _, note := range plan.Notes {
		log.Warn("  %s", note)
	}
	log.Info("  -> %s (%s, %s %s)", filepath.Base(job.Output), plan.Format, plan.OutputType,
		display.FormatRange(plan.Range.Min, plan.Range.Max))

	// --- Dry-run ---
	if cfg.DryRun {
		log.Success("[DRY] %s", translate.CommandLine(plan))
		stats.Planned++
		return nil
	}
	log.Debug(cfg.Verbose, "  %s", translate.CommandLine(plan))

	// --- Translate ---
	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	_, statErr := os.Stat(job.Output)
	existed := statErr == nil
	start := time.Now()
	if err := translate.Execute(ds, plan); err != nil {
		// Only clean up a partial file this call created.
		if !existed {
			os.Remove(job.Output)
		}
		return err
	}
	elapsed := time.Since(start)

	var outSize int64
	if outInfo, err := os.Stat(job.Output); err == nil {
		outSize = outInfo.Size()
	}
	stats.TotalInputBytes += fi.Size()
	stats.TotalOutputBytes += outSize
	stats.Converted++
	log.Success("Converted in %s (%s -> %s)", elapsed.Round(time.Millisecond),
		display.FormatBytes(fi.Size()), display.FormatBytes(outSize))

	// --- Publish ---
	if pub != nil {
		dest, err := pub.Publish(ctx, job.Output)
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		stats.Published++
		log.Success("  Published %s", dest)
	}
	return nil
}

// warnCollisions logs every pair of inputs that resolve to the same output.
// Jobs are left unchanged; the later file overwrites the earlier one.
func warnCollisions(log *logging.Logger, jobs []Job) {
	cd := naming.NewCollisionDetector()
	for _, j := range jobs {
		if owner, hit := cd.Claim(j.Input, j.Output); hit {
			log.Warn("Output collision: %s and %s both write %s", owner, j.Input, j.Output)
		}
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d files", stats.Total)
	log.Info("Format: %s, pixel type: %s", cfg.Format, cfg.DataType)

	if cfg.Range != nil {
		log.Info("Range: %s (explicit)", display.FormatRange(cfg.Range.Min, cfg.Range.Max))
	} else {
		log.Info("Range: by pixel type")
	}

	if len(cfg.Bands) > 0 {
		parts := make([]string, len(cfg.Bands))
		for i, b := range cfg.Bands {
			parts[i] = strconv.Itoa(b)
		}
		log.Info("Bands: %s", strings.Join(parts, ","))
	} else {
		log.Info("Bands: all")
	}

	if cfg.PublishURL != "" && !cfg.DryRun {
		log.Info("Publish: %s", cfg.PublishURL)
	}
	log.Info("")
}

func logBandStats(cfg *config.Config, log *logging.Logger, pr *probe.ProbeResult) {
	log.Debug(cfg.Verbose, "  %s, %d bands", pr.Driver.Name, pr.BandCount())
	for _, b := range pr.Bands {
		log.Debug(cfg.Verbose, "  Band %d: %s | min %g | max %g | mean %.4g | std %.4g",
			b.Index, b.DataType, b.Stats.Min, b.Stats.Max, b.Stats.Mean, b.Stats.Std)
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	if cfg.DryRun {
		log.Info("Done: %d planned (dry run, nothing written)", stats.Planned)
		return
	}
	log.Info("Done: %d converted", stats.Converted)
	if stats.Published > 0 {
		log.Info("  Published: %d", stats.Published)
	}
	log.Success("  Total size: input %s -> output %s (%s)",
		display.FormatBytes(stats.TotalInputBytes),
		display.FormatBytes(stats.TotalOutputBytes),
		display.FormatBytesWithSign(stats.SizeDelta()))
}
