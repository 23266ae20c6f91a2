package utils

import (
	stderrors "errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/toyz/ctrlgen/internal/errors"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides structured, user-friendly output. It is safe for
// concurrent use; packages generated in parallel share one instance.
type DiagnosticSystem struct {
	mu        sync.Mutex
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int

	progress      string
	progressStart time.Time
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// SetOutput redirects regular and error output
func (d *DiagnosticSystem) SetOutput(out, errOut io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.output = out
	d.errorOut = errOut
}

// SetColors forces colored output on or off
func (d *DiagnosticSystem) SetColors(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.useColors = enabled
}

// Level returns the configured output level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", color.FgBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "SUCCESS", color.FgGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, "DEBUG", color.FgMagenta, format, args...)
	}
}

// Header outputs the ctrlgen banner line
func (d *DiagnosticSystem) Header(message string) {
	if d.level < DiagnosticInfo {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paint(color.FgCyan).Fprintf(d.output, "ctrlgen: %s\n", message)
}

// Section creates a prominent section header
func (d *DiagnosticSystem) Section(title string) {
	d.plain(DiagnosticInfo, "%s\n", title)
}

// Subsection creates a subsection header
func (d *DiagnosticSystem) Subsection(title string) {
	d.plain(DiagnosticInfo, "\n%s:\n", title)
}

// List outputs a bulleted list item
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level < DiagnosticInfo {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.output, "%s- %s\n", d.getIndent(), fmt.Sprintf(format, args...))
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.mu.Lock()
	d.indent++
	d.mu.Unlock()
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	d.mu.Lock()
	if d.indent > 0 {
		d.indent--
	}
	d.mu.Unlock()
}

// StartProgress announces a step; EndProgress closes it
func (d *DiagnosticSystem) StartProgress(message string) {
	d.mu.Lock()
	d.progress = message
	d.progressStart = time.Now()
	d.mu.Unlock()

	d.plain(DiagnosticVerbose, "%s...\n", message)
}

// EndProgress reports the outcome of the step started last. detail is
// appended when not empty.
func (d *DiagnosticSystem) EndProgress(ok bool, detail string) {
	if d.level < DiagnosticInfo {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	msg := d.progress
	if detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, detail)
	}
	if d.showTime && !d.progressStart.IsZero() {
		msg = fmt.Sprintf("%s in %s", msg, time.Since(d.progressStart).Round(time.Millisecond))
	}

	if ok {
		d.paint(color.FgGreen).Fprint(d.output, "✓ ")
	} else {
		d.paint(color.FgRed).Fprint(d.output, "✗ ")
	}
	fmt.Fprintln(d.output, msg)
	d.progress = ""
}

// Summary outputs a final summary with statistics, keys sorted
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	if d.level < DiagnosticInfo {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintf(d.output, "\n%s\n", title)
	for _, key := range slices.Sorted(maps.Keys(stats)) {
		fmt.Fprintf(d.output, "   %s: %v\n", key, stats[key])
	}
	fmt.Fprintln(d.output)
}

// ReportError prints err as file:line:col: message lines followed by the
// suggestions of every generator error it carries
func (d *DiagnosticSystem) ReportError(err error) {
	if err == nil || d.level < DiagnosticError {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range flatten(err) {
		d.paint(color.FgRed, color.Bold).Fprint(d.errorOut, "error: ")
		fmt.Fprintln(d.errorOut, e.Error())

		ce, ok := errors.AsCtrlgenError(e)
		if !ok {
			continue
		}
		for _, hint := range ce.Suggestions() {
			d.paint(color.FgYellow).Fprint(d.errorOut, "  hint: ")
			fmt.Fprintln(d.errorOut, hint)
		}
		if d.level >= DiagnosticDebug {
			for key, value := range ce.Context() {
				fmt.Fprintf(d.errorOut, "  %s: %v\n", key, value)
			}
		}
	}
}

// flatten expands joined errors so each one is reported on its own
func flatten(err error) []error {
	var joined interface{ Unwrap() []error }
	if stderrors.As(err, &joined) {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func (d *DiagnosticSystem) plain(level DiagnosticLevel, format string, args ...interface{}) {
	if d.level < level {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.output, format, args...)
}

// writeMessage is the internal message writing function
func (d *DiagnosticSystem) writeMessage(writer io.Writer, level string, attr color.Attribute, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	d.mu.Lock()
	defer d.mu.Unlock()

	var output strings.Builder
	output.WriteString(d.getIndent())
	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}
	output.WriteString(d.paint(attr).Sprintf("[%s]", level))
	output.WriteString(" ")
	output.WriteString(message)
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

func (d *DiagnosticSystem) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if d.useColors {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// getIndent returns the current indentation string
func (d *DiagnosticSystem) getIndent() string {
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
