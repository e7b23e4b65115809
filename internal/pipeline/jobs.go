package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/backmassage/rasterconv/internal/config"
	"github.com/backmassage/rasterconv/internal/naming"
	"github.com/backmassage/rasterconv/internal/planner"
	"github.com/backmassage/rasterconv/internal/raster"
)

// Sentinel errors returned by ResolveJobs.
var (
	ErrInputNotFound = errors.New("input path does not exist")
	ErrOutputNotDir  = errors.New("directory input requires an existing output directory (-o)")
	ErrXMLInput      = errors.New("input is an .xml sidecar, not a raster")
	ErrOutputIsInput = errors.New("output path is the input file")
)

// Job is one conversion: an input, the output it writes, and the options it
// is converted with. Jobs are built once by ResolveJobs and never modified;
// "Native" options stay unresolved until the dataset is opened.
type Job struct {
	Input   string
	Output  string
	Request planner.Request
}

func newJob(input, output string, req planner.Request) Job {
	// Copy slice and pointer fields so no two jobs share option storage.
	if req.Bands != nil {
		req.Bands = append([]int(nil), req.Bands...)
	}
	if req.Range != nil {
		r := *req.Range
		req.Range = &r
	}
	return Job{Input: input, Output: output, Request: req}
}

func requestFrom(cfg *config.Config) planner.Request {
	return planner.Request{
		Format:   cfg.Format,
		DataType: cfg.DataType,
		Bands:    cfg.Bands,
		Range:    cfg.Range,
	}
}

// ResolveJobs expands cfg.Input into jobs.
//
// A single file writes to cfg.Output, to <dir>/<stem>_converted.<ext> when
// cfg.Output is an existing directory, or to <input dir>/converted.<ext>
// when cfg.Output is empty. A directory input requires cfg.Output to be an
// existing directory; this is checked before any dataset is opened. Every
// discovered file then writes <output>/<stem>_converted.<ext>, with the
// extension resolved per file so mixed-format directories keep their
// formats under Native. A job whose output is its own input fails with
// ErrOutputIsInput.
func ResolveJobs(eng raster.Engine, cfg *config.Config) ([]Job, error) {
	info, err := os.Stat(cfg.Input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", cfg.Input, ErrInputNotFound)
		}
		return nil, err
	}
	req := requestFrom(cfg)

	if !info.IsDir() {
		if naming.IsAuxiliary(cfg.Input) {
			return nil, fmt.Errorf("%s: %w", cfg.Input, ErrXMLInput)
		}
		ext, err := naming.Extension(eng, cfg.Input, cfg.Format)
		if err != nil {
			return nil, err
		}
		out := cfg.Output
		switch {
		case out == "":
			out = naming.SingleOutputPath(cfg.Input, ext)
		case isDir(out):
			out = naming.BatchOutputPath(cfg.Input, out, ext)
		}
		if samePath(cfg.Input, out) {
			return nil, fmt.Errorf("%s: %w", out, ErrOutputIsInput)
		}
		return []Job{newJob(cfg.Input, out, req)}, nil
	}

	if cfg.Output == "" || !isDir(cfg.Output) {
		return nil, ErrOutputNotDir
	}
	files, err := Discover(cfg.Input)
	if err != nil {
		return nil, err
	}
	jobs := make([]Job, 0, len(files))
	for _, f := range files {
		ext, err := naming.Extension(eng, f, cfg.Format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		out := naming.BatchOutputPath(f, cfg.Output, ext)
		if samePath(f, out) {
			return nil, fmt.Errorf("%s: %w", out, ErrOutputIsInput)
		}
		jobs = append(jobs, newJob(f, out, req))
	}
	return jobs, nil
}

// collectInputs returns the input file itself, or every discovered file when
// input is a directory.
func collectInputs(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", input, ErrInputNotFound)
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	return Discover(input)
}

// samePath reports whether a and b name the same file, either lexically
// after resolving to absolute paths or, when both exist, on disk (links).
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
