package parser

import (
	"errors"
	"fmt"
)

// ErrNoActiveAlignment reports a residue row that appeared before any
// alignment header. Such a row cannot be attributed to an alignment and
// the import must abort.
var ErrNoActiveAlignment = errors.New("residue row before any alignment header")

// MalformedAlignmentLineError reports a ">" header line that failed
// field-count or numeric validation. Always fatal: every residue row
// after it would be attributed to the wrong alignment otherwise.
type MalformedAlignmentLineError struct {
	Line    int
	Content string
	Reason  string
}

func (e *MalformedAlignmentLineError) Error() string {
	return fmt.Sprintf("malformed alignment line %d: %s: %q", e.Line, e.Reason, e.Content)
}

// MalformedResidueLineError reports a residue row whose position tokens
// or field count could not be validated. Always fatal.
type MalformedResidueLineError struct {
	Line    int
	Content string
	Reason  string
}

func (e *MalformedResidueLineError) Error() string {
	return fmt.Sprintf("malformed residue line %d: %s: %q", e.Line, e.Reason, e.Content)
}
