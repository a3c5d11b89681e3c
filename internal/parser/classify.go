package parser

import "strings"

// LineClass tags the shape of one non-blank input line. The driver
// filters blank lines before classification, so every other line is
// exactly one of these.
type LineClass int

const (
	// LineComment is a "#"-prefixed line, ignored entirely.
	LineComment LineClass = iota
	// LineAlignmentHeader is a ">"-prefixed line opening a new alignment.
	LineAlignmentHeader
	// LineResidueRow is any other line, a residue correspondence for the
	// alignment currently open.
	LineResidueRow
)

// Classify inspects only the leading characters of line.
func Classify(line string) LineClass {
	switch {
	case strings.HasPrefix(line, "#"):
		return LineComment
	case strings.HasPrefix(line, ">"):
		return LineAlignmentHeader
	default:
		return LineResidueRow
	}
}
