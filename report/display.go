package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

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
)

// PrintErrorMessage prints a standard Go error to the console.
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console.
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user.
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------

// displayAbort displays an internal error or unimplemented marker.
func displayAbort(label, message string) {
	fmt.Print("\n")
	ErrorStyleBG.Print(label + ":")
	ErrorColorFG.Println(" " + message)
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the string to prefix the message with: eg. if we want to display an error,
// the label is "error".
func (r *Reporter) displayCompileMessage(label string, msg *Message) {
	labelColor := ErrorColorFG
	if label != "error" {
		labelColor = WarnColorFG
	}

	if msg.Span == nil {
		fmt.Printf("%s: ", r.reprPath)
	} else {
		fmt.Printf("%s:%d:%d: ", r.reprPath, msg.Span.StartLine+1, msg.Span.StartCol+1)
	}

	labelColor.Print(label + ":")
	fmt.Println(" " + msg.Text)

	if msg.Span != nil && r.source != "" {
		r.displaySourceText(msg.Span)
	}

	fmt.Println()
}

// displaySourceText displays a segment of source text defined by a text span.
func (r *Reporter) displaySourceText(span *TextSpan) {
	srcLines := strings.Split(r.source, "\n")
	if span.StartLine >= len(srcLines) {
		return
	}

	var lines []string
	for ln := span.StartLine; ln <= span.EndLine && ln < len(srcLines); ln++ {
		lines = append(lines, strings.ReplaceAll(strings.TrimRight(srcLines[ln], "\r"), "\t", "    "))
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt32
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		InfoColorFG.Print(fmt.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		carretPrefixCount := 0
		if i == 0 {
			carretPrefixCount = span.StartCol - minIndent
		}

		lineEnd := len(line)
		if i == len(lines)-1 && span.EndCol < lineEnd {
			lineEnd = span.EndCol
		}

		carretCount := lineEnd - minIndent - carretPrefixCount
		if carretCount < 1 {
			carretCount = 1
		}
		if carretPrefixCount < 0 {
			carretPrefixCount = 0
		}

		fmt.Print(strings.Repeat(" ", carretPrefixCount))
		ErrorColorFG.Println(strings.Repeat("^", carretCount))
	}
}

// -----------------------------------------------------------------------------

const maxPhaseLength = len("Generating")

// BeginPhase marks the start of a compilation phase.  Phases are only
// displayed at the verbose log level.
func (r *Reporter) BeginPhase(phase string) {
	r.currentPhase = phase
	r.phaseStartTime = time.Now()
}

// EndPhase displays the outcome of the current compilation phase.
func (r *Reporter) EndPhase(success bool) {
	if r.logLevel < LogLevelVerbose || r.currentPhase == "" {
		return
	}

	padded := r.currentPhase + strings.Repeat(" ", maxPhaseLength-len(r.currentPhase)+2)
	if success {
		donePrinter := &pterm.PrefixPrinter{
			MessageStyle: pterm.NewStyle(pterm.FgDefault),
			Prefix: pterm.Prefix{
				Style: SuccessStyleBG,
				Text:  "Done",
			},
		}

		donePrinter.Println(padded, fmt.Sprintf("(%.3fs)", time.Since(r.phaseStartTime).Seconds()))
	} else {
		failPrinter := &pterm.PrefixPrinter{
			MessageStyle: pterm.NewStyle(pterm.FgDefault),
			Prefix: pterm.Prefix{
				Style: ErrorStyleBG,
				Text:  "Fail",
			},
		}

		failPrinter.Println(padded)
	}

	r.currentPhase = ""
}

// Finished displays the concluding message for compilation.
func (r *Reporter) Finished() {
	if r.logLevel < LogLevelVerbose {
		return
	}

	fmt.Print("\n")

	if r.errorCount == 0 {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch r.errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(r.errorCount)
		fmt.Print(" errors, ")
	}

	switch r.warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		WarnColorFG.Print(r.warningCount)
		fmt.Println(" warnings)")
	}
}
