package report

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during compilation.  The reporter respects the set log
// level and is synchronized.  Every message is also recorded so that callers
// can inspect diagnostics after a pass.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The path displayed in front of compile messages.
	reprPath string

	// The source text used for caret underlining.  May be empty.
	source string

	// The recorded compile messages in reporting order.
	messages []*Message

	errorCount, warningCount int

	// Phase tracking for the verbose phase display.
	currentPhase   string
	phaseStartTime time.Time
}

// Message is a single recorded compile error or warning.
type Message struct {
	Span    *TextSpan
	Text    string
	IsError bool
}

func (msg *Message) String() string {
	if msg.Span == nil {
		return msg.Text
	}

	return msg.Span.String() + ": " + msg.Text
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user (default).
)

// ParseLogLevel converts a log level name into its enumerated value.
func ParseLogLevel(name string) (int, bool) {
	switch name {
	case "silent":
		return LogLevelSilent, true
	case "error":
		return LogLevelError, true
	case "warn":
		return LogLevelWarn, true
	case "verbose":
		return LogLevelVerbose, true
	}

	return 0, false
}

// NewReporter creates a reporter for the source file displayed as reprPath.
// The source text is used to display the erroneous lines and may be empty.
func NewReporter(logLevel int, reprPath, source string) *Reporter {
	return &Reporter{
		m:        &sync.Mutex{},
		logLevel: logLevel,
		reprPath: reprPath,
		source:   source,
	}
}

// LogLevel returns the reporter's log level.
func (r *Reporter) LogLevel() int {
	return r.logLevel
}

// CompileError reports a compilation error: ie. erroneous input code.  The
// span may be nil in which case no position information will be printed.
func (r *Reporter) CompileError(span *TextSpan, message string, args ...interface{}) {
	r.m.Lock()
	defer r.m.Unlock()

	msg := &Message{Span: span, Text: fmt.Sprintf(message, args...), IsError: true}
	r.messages = append(r.messages, msg)
	r.errorCount++

	if r.logLevel > LogLevelSilent {
		r.displayCompileMessage("error", msg)
	}
}

// Warning reports a compilation warning.
func (r *Reporter) Warning(span *TextSpan, message string, args ...interface{}) {
	r.m.Lock()
	defer r.m.Unlock()

	msg := &Message{Span: span, Text: fmt.Sprintf(message, args...)}
	r.messages = append(r.messages, msg)
	r.warningCount++

	if r.logLevel > LogLevelError {
		r.displayCompileMessage("warning", msg)
	}
}

// AnyErrors returns whether or not any errors were detected.
func (r *Reporter) AnyErrors() bool {
	return r.errorCount > 0
}

// ErrorCount returns the number of errors reported so far.
func (r *Reporter) ErrorCount() int {
	return r.errorCount
}

// Messages returns all recorded messages.
func (r *Reporter) Messages() []*Message {
	return r.messages
}

// Errors returns the text of every recorded error in order.
func (r *Reporter) Errors() []string {
	var errs []string
	for _, msg := range r.messages {
		if msg.IsError {
			errs = append(errs, msg.Text)
		}
	}

	return errs
}

// Summary renders all recorded messages one per line.
func (r *Reporter) Summary() string {
	sb := strings.Builder{}
	for _, msg := range r.messages {
		sb.WriteString(msg.String())
		sb.WriteRune('\n')
	}

	return sb.String()
}
