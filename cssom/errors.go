package cssom

import (
	"errors"
	"fmt"
)

// Resource-limit errors. They are raised regardless of how lenient a client
// wants parsing to be, as they protect against resource exhaustion rather than
// expressing document validity.
var (
	// ErrDepthExceeded is raised if blocks are nested too deeply.
	ErrDepthExceeded = errors.New("nesting depth exceeded")

	// ErrSizeExceeded is raised if a cardinality limit (e.g., the number of
	// distinct media contexts) is exceeded.
	ErrSizeExceeded = errors.New("size limit exceeded")
)

// Contract errors of the stylesheet API.
var (
	// ErrEmptySelector is returned when adding a rule without a selector.
	ErrEmptySelector = errors.New("empty selector")

	// ErrLateImport is returned when adding an @import after rules have been added.
	ErrLateImport = errors.New("@import must precede all rules other than @charset")

	// ErrNoSuchEntry is returned for operations referencing an unknown entry id.
	ErrNoSuchEntry = errors.New("no such entry")

	// ErrNotAnImport is returned when splicing into an entry which is not an
	// unresolved @import statement.
	ErrNotAnImport = errors.New("entry is not an unresolved @import")
)

// Diagnostic is a non-fatal warning. Diagnostics report common situations,
// like a late @import, which are dropped from the model but should not abort
// batch tooling.
type Diagnostic struct {
	Line    int    // 1-based line number, 0 if unknown
	Column  int    // 1-based column, 0 if unknown
	Message string // human readable description
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}
