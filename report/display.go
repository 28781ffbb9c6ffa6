package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AkiNeko11/MyCompiler/common"
	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG

	LocationColorFG = pterm.FgLightWhite
	GutterColorFG   = pterm.FgCyan
	NoteColorFG     = pterm.FgCyan
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// displayRecord renders one diagnostic record: the location line, the quoted
// source line with the offending span recolored, the caret line, and the
// optional hint.
func (r *Reporter) displayRecord(level string, pos Position, highlight int, msg, hint string) {
	levelColor := ErrorColorFG
	switch level {
	case "warning":
		levelColor = WarnColorFG
	case "note":
		levelColor = NoteColorFG
	}

	fileName := ""
	if r.src != nil {
		fileName = r.src.Path + ":"
	}

	loc := fmt.Sprintf("%s%d:%d:", fileName, pos.Row, pos.Col)
	fmt.Fprintf(r.out, "%s %s %s\n",
		LocationColorFG.Sprint(loc),
		levelColor.Sprint(level+":"),
		msg)

	rowStr := strconv.Itoa(pos.Row)
	blankGutter := strings.Repeat(" ", len(rowStr)+4) + "| "

	if r.src != nil && pos.Row >= 1 && pos.Row <= r.src.NumLines() {
		line := []rune(r.src.Line(pos.Row))

		start := pos.Col - 1
		if start < 0 {
			start = 0
		}
		if start > len(line) {
			start = len(line)
		}

		end := start + highlight
		if end > len(line) {
			end = len(line)
		}

		fmt.Fprintf(r.out, "%s%s%s%s\n",
			GutterColorFG.Sprint("   "+rowStr+" | "),
			string(line[:start]),
			levelColor.Sprint(string(line[start:end])),
			string(line[end:]))

		carets := strings.Repeat(" ", start) + strings.Repeat("^", highlight)
		fmt.Fprintf(r.out, "%s%s\n",
			GutterColorFG.Sprint(blankGutter),
			SuccessColorFG.Sprint(carets))
	}

	if hint != "" {
		fmt.Fprintf(r.out, "%s%s\n",
			GutterColorFG.Sprint(blankGutter),
			SuccessColorFG.Sprint("hint: "+hint))
	}
}

// PrintCompileHeader prints the toolchain banner before compilation begins.
func (r *Reporter) PrintCompileHeader(path string) {
	if r.logLevel < LogLevelVerbose {
		return
	}

	fmt.Fprint(r.out, "pl0 ")
	fmt.Fprint(r.out, InfoColorFG.Sprint("v"+common.PL0Version))
	fmt.Fprint(r.out, " -- compiling: ")
	fmt.Fprintln(r.out, InfoColorFG.Sprint(path))
}

const summaryRuleWidth = 57

// PrintSummary renders the end-of-compilation banner: a rule, the error and
// warning counts, a second rule, then the verdict line.
func (r *Reporter) PrintSummary() {
	if r.logLevel == LogLevelSilent {
		return
	}

	rule := strings.Repeat("─", summaryRuleWidth)
	fmt.Fprintln(r.out, rule)

	if r.errorCount == 0 && r.warningCount == 0 {
		fmt.Fprintln(r.out, SuccessColorFG.Sprint("✓ ")+"Build succeeded with no errors or warnings.")
	} else {
		line := ""
		if r.errorCount > 0 {
			line = ErrorColorFG.Sprint("✗ ") + fmt.Sprintf("%d error(s)", r.errorCount)
		}

		if r.warningCount > 0 {
			if line != "" {
				line += ", "
			}

			line += WarnColorFG.Sprint("⚠ ") + fmt.Sprintf("%d warning(s)", r.warningCount)
		}

		fmt.Fprintln(r.out, line+" generated.")
	}

	fmt.Fprintln(r.out, rule)

	if r.errorCount == 0 {
		fmt.Fprintln(r.out, SuccessColorFG.Sprint("Compilation successful!"))
	} else {
		fmt.Fprintln(r.out, ErrorColorFG.Sprint("Compilation failed."))
	}
}

const maxPhaseLength = len("Generating")

// BeginPhase starts the progress spinner for a named compilation phase.
// Phases only render at verbose level.
func (r *Reporter) BeginPhase(phase string) {
	if r.logLevel < LogLevelVerbose {
		return
	}

	r.currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	r.phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	r.phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	r.phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	r.phaseSpinner.Start(phaseText)
	r.phaseStart = time.Now()
}

// EndPhase closes the current phase spinner with a Done or Fail prefix.
func (r *Reporter) EndPhase(success bool) {
	if r.phaseSpinner == nil {
		return
	}

	pad := strings.Repeat(" ", maxPhaseLength-len(r.currentPhase)+2)
	if success {
		r.phaseSpinner.Success(
			r.currentPhase+pad,
			fmt.Sprintf("(%.3fs)", time.Since(r.phaseStart).Seconds()),
		)
	} else {
		r.phaseSpinner.Fail(r.currentPhase + pad)
	}

	r.phaseSpinner = nil
}
