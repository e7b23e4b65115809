package config

// This file implements CLI flag parsing and help text.
// Single-dash multi-letter flags (-of, -ot, -or) follow gdal_translate naming.

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/backmassage/rasterconv/internal/raster"
)

// ParseFlags parses args (without the program name) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, malformed band list, stray positional argument).
func ParseFlags(cfg *Config, args []string, version string) error {
	fs := flag.NewFlagSet("rasterconv", flag.ContinueOnError)
	fs.Usage = func() { printUsage(version) }

	var u utilityFlags
	defineConversionFlags(fs, cfg)
	definePublishFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &u)

	if err := fs.Parse(normalizeRangeArgs(args)); err != nil {
		return err
	}

	applyUtilityFlags(cfg, &u)

	if u.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if u.showVersion {
		fmt.Fprintln(os.Stdout, "rasterconv v"+version)
		os.Exit(0)
	}

	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument %q (use -i for the input path)", rest[0])
	}
	if cfg.PublishRegion == "" {
		cfg.PublishRegion = os.Getenv("AWS_REGION")
	}
	return nil
}

// utilityFlags holds boolean flags that are applied after Parse.
type utilityFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineConversionFlags registers -i, -o, -b, -of, -ot, -or, --dry-run and --analyze.
func defineConversionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Input, "input", "", "Input file or directory")
	fs.StringVar(&cfg.Input, "i", "", "Same as --input")
	fs.StringVar(&cfg.Output, "output", "", "Output file or directory")
	fs.StringVar(&cfg.Output, "o", "", "Same as --output")
	fs.Var(&bandsValue{&cfg.Bands}, "bands", "Comma-separated 1-based band indices")
	fs.Var(&bandsValue{&cfg.Bands}, "b", "Same as --bands")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output driver name")
	fs.StringVar(&cfg.Format, "of", cfg.Format, "Same as --format")
	fs.StringVar(&cfg.DataType, "dtype", cfg.DataType, "Output pixel type")
	fs.StringVar(&cfg.DataType, "ot", cfg.DataType, "Same as --dtype")
	fs.Var(&rangeValue{&cfg.Range}, "range", "Explicit output range: lo hi")
	fs.Var(&rangeValue{&cfg.Range}, "or", "Same as --range")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Plan only; do not write output")
	fs.BoolVar(&cfg.DryRun, "n", false, "Same as --dry-run")
	fs.BoolVar(&cfg.Analyze, "analyze", false, "Report drivers, types and value ranges only")
	fs.BoolVar(&cfg.Analyze, "a", false, "Same as --analyze")
}

// definePublishFlags registers --publish and its per-backend credentials.
func definePublishFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.PublishURL, "publish", "", "Upload outputs to gs://, s3://, sftp:// or file:// destination")
	fs.StringVar(&cfg.PublishRegion, "publish-region", "", "S3 region (default: $AWS_REGION)")
	fs.StringVar(&cfg.GCSCredentials, "gcs-credentials", "", "Service account JSON for GCS")
	fs.StringVar(&cfg.SFTPKey, "sftp-key", "", "Private key file for sftp://")
	fs.StringVar(&cfg.KnownHosts, "known-hosts", "", "known_hosts file for sftp://")
}

// defineDisplayFlags registers color, verbose, check, log, version and help.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, u *utilityFlags) {
	fs.BoolVar(&u.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&u.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "List raster drivers and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
	fs.BoolVar(&u.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&u.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&u.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&u.showHelp, "h", false, "Same as --help")
}

func applyUtilityFlags(cfg *Config, u *utilityFlags) {
	if u.noColor {
		cfg.ColorMode = ColorNever
	} else if u.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// normalizeRangeArgs rewrites the two-value form "-or lo hi" into
// "-or lo,hi" so the flag package sees a single value. Anything else passes
// through untouched.
func normalizeRangeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		out = append(out, a)
		if !isRangeFlag(a) || i+2 >= len(args) {
			continue
		}
		if isFloat(args[i+1]) && isFloat(args[i+2]) {
			out = append(out, args[i+1]+","+args[i+2])
			i += 2
		}
	}
	return out
}

func isRangeFlag(a string) bool {
	switch a {
	case "-or", "--or", "-range", "--range":
		return true
	}
	return false
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 30
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "rasterconv v" + version + " - rescale raster pixel values and convert formats"},
		{"", ""},
		{"  rasterconv -i <file|dir> [-o <file|dir>] [OPTIONS]", ""},
		{"", ""},
		{"Conversion", ""},
		{"  -i, --input <path>", "Input file or directory (recursive)"},
		{"  -o, --output <path>", "Output file, or existing directory for directory input"},
		{"  -b, --bands <list>", "Comma-separated 1-based band indices (default: all)"},
		{"  -of, --format <driver>", "Output driver name (default: Native)"},
		{"  -ot, --dtype <type>", "Output pixel type (default: Native)"},
		{"", "  " + strings.Join(raster.TypeNames(), ", ")},
		{"  -or, --range <lo> <hi>", "Explicit output range (default: by pixel type)"},
		{"  -n, --dry-run", "Plan and print gdal_translate commands only"},
		{"  -a, --analyze", "Report drivers, pixel types and value ranges"},
		{"", ""},
		{"Publish", ""},
		{"  --publish <url>", "Upload outputs to gs://, s3://, sftp:// or file://"},
		{"  --publish-region <r>", "S3 region (default: $AWS_REGION)"},
		{"  --gcs-credentials <file>", "Service account JSON for GCS"},
		{"  --sftp-key <file>", "Private key for sftp:// (or a password in the URL)"},
		{"  --known-hosts <file>", "known_hosts for sftp:// (default: ~/.ssh/known_hosts)"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (per-band statistics, commands)"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "List raster drivers and their extensions"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters for list-valued flags.

type bandsValue struct{ p *[]int }

func (b *bandsValue) String() string {
	if b.p == nil {
		return ""
	}
	parts := make([]string, len(*b.p))
	for i, n := range *b.p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func (b *bandsValue) Set(s string) error {
	var bands []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("invalid band index %q (use e.g. 3,2,1)", f)
		}
		bands = append(bands, n)
	}
	if len(bands) == 0 {
		return fmt.Errorf("empty band list %q", s)
	}
	*b.p = bands
	return nil
}

type rangeValue struct{ p **raster.Range }

func (r *rangeValue) String() string {
	if r.p == nil || *r.p == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g", (*r.p).Min, (*r.p).Max)
}

func (r *rangeValue) Set(s string) error {
	fields := strings.FieldsFunc(s, func(c rune) bool { return c == ',' || c == ' ' })
	if len(fields) != 2 {
		return fmt.Errorf("range needs two values lo hi (got %q)", s)
	}
	lo, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("invalid range minimum %q", fields[0])
	}
	hi, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("invalid range maximum %q", fields[1])
	}
	*r.p = &raster.Range{Min: lo, Max: hi}
	return nil
}
