package ui

import (
	"encoding/json"
	"io"
)

// Severity is the visual weight of a piece of inline text.
type Severity uint8

const (
	SeverityInfo    Severity = iota // plain
	SeveritySuccess                 // green, found
	SeverityWarn                    // yellow, unset or defaulted
	SeverityError                   // red, missing
)

// StyledText is a plain string with a Severity. It marshals to the plain
// string so JSON output never carries ANSI codes.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// Found styles v as success, or "-" as a warning when v is nil.
func Found(v *string) StyledText {
	if v == nil {
		return StyledText{Text: "-", Severity: SeverityWarn}
	}
	return StyledText{Text: *v, Severity: SeveritySuccess}
}

// UI is all output of the starknetid commands. TerminalUI writes to a
// terminal; RecordingUI captures calls for tests.
type UI interface {
	// Style colours t according to its Severity. Without colours the text is
	// returned as is.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error only prints; callers decide whether to stop.
	Error(format string, args ...any)

	// Section prints a separator centred around title.
	Section(title string)

	// KeyValue prints label/value rows with the values aligned.
	KeyValue(rows [][2]string)

	// Table prints a bordered table. With no headers only the rows are
	// drawn.
	Table(headers []string, rows [][]string)

	// TableWithGroups is Table with a divider between groups of rows, e.g.
	// one group per profile.
	TableWithGroups(headers []string, groups [][][]string)

	// JSON prints v as indented JSON.
	JSON(v any) error

	// Spinner shows msg with an animation until the returned func is called.
	//
	//	stop := u.Spinner("Resolving ben.stark")
	//	defer stop()
	Spinner(msg string) func()

	// Indent returns a child UI one level deeper sharing the same output.
	Indent() UI

	// Writer prefixes every line written to it with the current indent.
	Writer() io.Writer
}
