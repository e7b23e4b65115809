// Command rasterconv is the CLI entrypoint for the raster rescale and
// convert tool.
//
// It parses flags, validates configuration and paths, and either lists the
// available drivers (--check), analyzes the inputs (--analyze), or runs the
// conversion pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"github.com/backmassage/rasterconv/internal/check"
	"github.com/backmassage/rasterconv/internal/config"
	"github.com/backmassage/rasterconv/internal/display"
	"github.com/backmassage/rasterconv/internal/logging"
	"github.com/backmassage/rasterconv/internal/pipeline"
	"github.com/backmassage/rasterconv/internal/publish"
	"github.com/backmassage/rasterconv/internal/raster/gdal"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. Errors go straight to stderr until the logger exists.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintf(os.Stderr, "rasterconv: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "rasterconv: %v\n", err)
		return 1
	}

	baseLog, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rasterconv: %v\n", err)
		return 1
	}
	defer baseLog.Close()

	// Phase 2: Logger available.
	display.PrintBanner()
	eng := gdal.NewEngine()

	if cfg.CheckOnly {
		if !check.RunCheck(eng, baseLog) {
			return 1
		}
		return 0
	}

	runID := uuid.NewString()
	log := baseLog.With("run", runID)

	log.Info("=== rasterconv v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.Input)
	if cfg.Output != "" {
		log.Info("Out: %s", cfg.Output)
	}
	log.Debug(cfg.Verbose, "Run: %s", runID)
	if cfg.DryRun {
		log.Warn("DRY RUN - no files will be written")
	}
	log.Info("")

	warnOutputInsideInput(&cfg, log)

	// Fail fast if GTiff is missing or the named format cannot be written.
	if err := check.CheckDeps(&cfg, eng); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling. The pipeline stops between files.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	watchDone := cancelOnSignal(ctx, cancel, sigCh, func() {
		log.Warn("Received interrupt, finishing current file…")
	})
	defer func() {
		cancel()
		<-watchDone
	}()

	if cfg.Analyze {
		if err := pipeline.Analyze(ctx, &cfg, eng, log); err != nil {
			log.Error("%v", err)
			return 1
		}
		return 0
	}

	// Phase 4: Publisher, when requested and something will be written.
	var pub publish.Publisher
	if cfg.PublishURL != "" && !cfg.DryRun {
		pub, err = publish.New(ctx, cfg.PublishURL, publish.Options{
			Region:          cfg.PublishRegion,
			CredentialsFile: cfg.GCSCredentials,
			SSHKeyFile:      cfg.SFTPKey,
			KnownHostsFile:  cfg.KnownHosts,
			RunID:           runID,
		})
		if err != nil {
			log.Error("Publish setup: %v", err)
			return 1
		}
		pub = publish.WithRetry(pub, publish.DefaultAttempts, func(attempt int, err error) {
			log.Warn("  Publish attempt %d failed, retrying: %v", attempt, err)
		})
		defer func() {
			if err := pub.Close(); err != nil {
				log.Warn("Publish close: %v", err)
			}
		}()
	}

	// Phase 5: Run pipeline (resolve → probe → plan → translate → publish).
	if _, err := pipeline.Run(ctx, &cfg, eng, pub, log); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}

// cancelOnSignal cancels ctx on the first signal from sigCh. The watcher
// exits when ctx is done; the returned channel closes once it has.
func cancelOnSignal(ctx context.Context, cancel context.CancelFunc, sigCh <-chan os.Signal, onSignal func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-sigCh:
			onSignal()
			cancel()
		case <-ctx.Done():
		}
	}()
	return done
}

// warnOutputInsideInput warns when a directory input would pick up its own
// output on a later run. It never stops the run.
func warnOutputInsideInput(cfg *config.Config, log *logging.Logger) {
	if cfg.Output == "" {
		return
	}
	fi, err := os.Stat(cfg.Input)
	if err != nil || !fi.IsDir() {
		return
	}
	inputAbs, err := absPath(cfg.Input)
	if err != nil {
		return
	}
	outputAbs, err := absPath(cfg.Output)
	if err != nil {
		return
	}
	if config.OutputInsideInput(inputAbs, outputAbs) {
		log.Warn("Output %s is inside input %s; converted files will be picked up on the next run", cfg.Output, cfg.Input)
	}
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies. Paths that do not exist yet are
// returned unresolved.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
