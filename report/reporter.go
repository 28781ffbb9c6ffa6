package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AkiNeko11/MyCompiler/source"
	"github.com/pterm/pterm"
)

// The log levels, in increasing order of verbosity.
const (
	LogLevelSilent = iota
	LogLevelError
	LogLevelWarn
	LogLevelVerbose
)

// ParseLogLevel converts a log level name from the CLI or the project config
// into its constant.
func ParseLogLevel(name string) (int, error) {
	switch name {
	case "silent":
		return LogLevelSilent, nil
	case "error":
		return LogLevelError, nil
	case "warn":
		return LogLevelWarn, nil
	case "verbose":
		return LogLevelVerbose, nil
	default:
		return 0, fmt.Errorf("unknown log level: `%s`", name)
	}
}

// Reporter collects and renders compile diagnostics.  One reporter serves one
// compilation; the lexer, the parser, and the symbol table all write to it.
// It replaces no state behind the caller's back: counts only grow, and the
// caller decides what the counts gate.
type Reporter struct {
	out      io.Writer
	logLevel int

	src *source.File

	errorCount   int
	warningCount int

	phaseSpinner *pterm.SpinnerPrinter
	currentPhase string
	phaseStart   time.Time
}

// NewReporter creates a reporter writing to stdout.
func NewReporter(logLevel int) *Reporter {
	return &Reporter{out: os.Stdout, logLevel: logLevel}
}

// SetOutput redirects rendered diagnostics, mainly for tests.
func (r *Reporter) SetOutput(w io.Writer) {
	r.out = w
}

// SetSource attaches the file diagnostics quote lines from.
func (r *Reporter) SetSource(src *source.File) {
	r.src = src
}

// LogLevel returns the reporter's log level.
func (r *Reporter) LogLevel() int {
	return r.logLevel
}

// Error records a compile error of the given kind.  prev is the position of
// the last character of the previously accepted token and cur the position of
// the current token's first character; the kind picks which one the rendered
// record points at.  The extras fill the kind's message and hint templates.
func (r *Reporter) Error(kind ErrorKind, prev, cur Position, extras ...string) {
	r.errorCount++

	if r.logLevel < LogLevelError {
		return
	}

	pos, highlight := anchorPosition(kind, prev, cur, extras)
	r.displayRecord("error", pos, highlight, kind.Message(extras...), kind.Hint(extras...))
}

// Warning records a compile warning at pos.
func (r *Reporter) Warning(pos Position, msg string, args ...interface{}) {
	r.warningCount++

	if r.logLevel < LogLevelWarn {
		return
	}

	r.displayRecord("warning", pos, 1, fmt.Sprintf(msg, args...), "")
}

// ErrorCount returns the number of errors recorded so far.
func (r *Reporter) ErrorCount() int {
	return r.errorCount
}

// WarningCount returns the number of warnings recorded so far.
func (r *Reporter) WarningCount() int {
	return r.warningCount
}

// ShouldProceed reports whether compilation may move on to execution or
// artifact output, that is whether no errors occurred.
func (r *Reporter) ShouldProceed() bool {
	return r.errorCount == 0
}

// anchorPosition resolves the rendered position and highlight width for a
// diagnostic from its kind's anchor rule.
func anchorPosition(kind ErrorKind, prev, cur Position, extras []string) (Position, int) {
	switch kind.anchor() {
	case anchorAfterPrev:
		return Position{Row: prev.Row, Col: prev.Col + 1}, 1
	case anchorPrevEnd:
		return prev, 1
	default:
		if len(extras) > 0 && len(extras[0]) > 0 {
			return cur, len([]rune(extras[0]))
		}

		return cur, 1
	}
}
