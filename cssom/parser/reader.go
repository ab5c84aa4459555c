package parser

import (
	"io"

	"github.com/npillmayer/csskit/cssom"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseReader reads CSS source from r. The input is decoded as UTF-8, unless a
// byte order mark selects UTF-16. Invalid bytes are replaced by U+FFFD.
func ParseReader(r io.Reader, opts *Options) (*cssom.Stylesheet, error) {
	if r == nil {
		return nil, ErrNilInput
	}
	css, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(css, opts)
}

func readAll(r io.Reader) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	b, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		tracer().Errorf("css: reading input: %v", err)
		return "", err
	}
	return string(b), nil
}
