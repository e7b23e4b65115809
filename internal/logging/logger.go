// Package logging provides the leveled console logger used across rasterconv.
//
// Lines look like "2006-01-02 15:04:05 [LEVEL] text". The level tag is
// colored on a TTY; errors go to stderr; an optional log file receives
// uncolored lines with any attached fields appended as key=value pairs.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/backmassage/rasterconv/internal/config"
	"github.com/backmassage/rasterconv/internal/term"
)

const (
	timeLayout = "2006-01-02 15:04:05"

	// statusKey marks an Info entry as a SUCCESS line.
	statusKey     = "status"
	statusSuccess = "success"
)

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// NewLogger initializes colors from cfg and optionally opens cfg.LogFile.
// Call Close when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return newLogger(cfg, os.Stdout, os.Stderr)
}

func newLogger(cfg *config.Config, stdout, stderr io.Writer) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(logrus.DebugLevel)

	var mu sync.Mutex
	base.AddHook(&sink{mu: &mu, out: stdout, errOut: stderr, color: term.Enabled()})

	l := &Logger{entry: logrus.NewEntry(base)}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		base.AddHook(&sink{mu: &mu, out: f, fields: true})
	}
	return l, nil
}

// With returns a Logger that attaches key=value to every line it writes.
// Fields only appear in the log file. The returned Logger shares sinks with
// l; Close the original only.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Logf(logrus.InfoLevel, format, args...)
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.entry.WithField(statusKey, statusSuccess).Logf(logrus.InfoLevel, format, args...)
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Logf(logrus.WarnLevel, format, args...)
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Logf(logrus.ErrorLevel, format, args...)
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.entry.Logf(logrus.DebugLevel, format, args...)
}

// sink is a logrus hook that writes formatted lines to one destination.
// Console and file sinks share a mutex so lines never interleave.
type sink struct {
	mu     *sync.Mutex
	out    io.Writer
	errOut io.Writer // Optional destination for ERROR lines.
	color  bool
	fields bool
}

func (s *sink) Levels() []logrus.Level { return logrus.AllLevels }

func (s *sink) Fire(e *logrus.Entry) error {
	line := formatLine(e, s.color, s.fields)
	w := s.out
	if s.errOut != nil && e.Level <= logrus.ErrorLevel {
		w = s.errOut
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(w, line)
	return err
}

func formatLine(e *logrus.Entry, color, fields bool) string {
	label, c := levelLabel(e)
	var b strings.Builder
	b.WriteString(e.Time.Format(timeLayout))
	b.WriteByte(' ')
	if color {
		b.WriteString(term.Paint(c, "["+label+"]"))
	} else {
		b.WriteString("[" + label + "]")
	}
	b.WriteByte(' ')
	b.WriteString(e.Message)
	if fields {
		writeFields(&b, e.Data)
	}
	b.WriteByte('\n')
	return b.String()
}

func levelLabel(e *logrus.Entry) (string, term.Color) {
	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return "ERROR", term.Error
	case logrus.WarnLevel:
		return "WARN", term.Warn
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG", term.Debug
	}
	if e.Data[statusKey] == statusSuccess {
		return "SUCCESS", term.Success
	}
	return "INFO", term.Info
}

func writeFields(b *strings.Builder, data logrus.Fields) {
	keys := make([]string, 0, len(data))
	for k := range data {
		if k != statusKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, data[k])
	}
}
