package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

// ErrNotInteger is wrapped by a ParseError when a count has a fractional part.
var ErrNotInteger = errors.New("value is not a whole number")

// SchemaError reports required columns missing from a table header.
type SchemaError struct {
	Table   models.Table
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s: missing required column(s): %s", e.Table, strings.Join(e.Missing, ", "))
	if len(e.Found) > 0 {
		msg += fmt.Sprintf(" (found: %s)", strings.Join(e.Found, ", "))
	}
	return msg
}

// ParseError reports a cell that could not be read as a number.
// Row is the 1-based line number in the file, header included.
type ParseError struct {
	Table  models.Table
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: column %s: cannot parse %q: %v", e.Table, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
