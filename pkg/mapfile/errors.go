package mapfile

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFormat is wrapped by every FormatError.
var ErrFormat = errors.New("not a map file this parser understands")

// FormatError reports input that breaks the fixed layout of a section: a
// header that does not match, a record with the wrong number of fields or a
// missing mandatory section. It aborts the parse.
type FormatError struct {
	Section string
	Line    int // line number in the report, 0 when not tied to a line
	Text    string
	Reason  string
}

func (err *FormatError) Error() string {
	if err.Line == 0 {
		return fmt.Sprintf("%s: %s", err.Section, err.Reason)
	}
	return fmt.Sprintf("%s:%d: %s: %q", err.Section, err.Line, err.Reason, err.Text)
}

func (err *FormatError) Unwrap() error {
	return ErrFormat
}

func formatError(s *Section, idx int, reason string) error {
	e := &FormatError{Section: s.Label, Reason: reason}
	if idx >= 0 && idx < len(s.Lines) {
		e.Line = s.LineNo(idx)
		e.Text = s.Lines[idx]
	}
	return errors.WithStack(e)
}
