package parser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies structural parse errors.
type ErrorKind uint8

// Kinds of structural parse errors.
const (
	EmptyValue           ErrorKind = iota // declaration without a value
	MalformedDeclaration                  // declaration without a colon or property name
	InvalidSelector                       // empty or structurally broken selector
	MalformedAtRule                       // at-rule with a broken prelude or without a block
	UnclosedBlock                         // end of input within a block
	errorKindCount
)

var errorKindTags = [...]string{
	EmptyValue:           "empty_value",
	MalformedDeclaration: "malformed_declaration",
	InvalidSelector:      "invalid_selector",
	MalformedAtRule:      "malformed_at_rule",
	UnclosedBlock:        "unclosed_block",
}

// String returns a stable tag for an error kind, e.g. "empty_value".
func (k ErrorKind) String() string {
	if k < errorKindCount {
		return errorKindTags[k]
	}
	return fmt.Sprintf("error_kind_%d", uint8(k))
}

// ParseError is a structural error, reported in strict mode only.
type ParseError struct {
	Line   int // 1-based
	Column int // 1-based
	Kind   ErrorKind
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("css: %d:%d: %s: %s", e.Line, e.Column, e.Kind, e.Msg)
}

// LimitError reports that a resource limit has been exceeded. Err is either
// cssom.ErrDepthExceeded or cssom.ErrSizeExceeded (possibly wrapped). Limit
// errors are raised regardless of strictness.
type LimitError struct {
	Line   int
	Column int
	Err    error
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("css: %d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *LimitError) Unwrap() error {
	return e.Err
}

// ErrNilInput is returned for a nil reader.
var ErrNilInput = errors.New("css: nil input")
