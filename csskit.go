package csskit

import (
	"io"
	"strings"

	"github.com/npillmayer/csskit/cascade"
	"github.com/npillmayer/csskit/cssom"
	"github.com/npillmayer/csskit/cssom/parser"
)

// Parse reads a stylesheet from r. Input may start with a byte order mark.
// opts may be nil, selecting lenient parsing with the default resource limits.
func Parse(r io.Reader, opts *parser.Options) (*cssom.Stylesheet, error) {
	return parser.ParseReader(r, opts)
}

// ParseString parses CSS source text.
func ParseString(css string, opts *parser.Options) (*cssom.Stylesheet, error) {
	return parser.Parse(css, opts)
}

// Flatten returns a copy of a stylesheet with a single rule per selector and
// media context, see package cascade.
func Flatten(sheet *cssom.Stylesheet) *cssom.Stylesheet {
	return cascade.Flatten(sheet)
}

// String serializes a stylesheet in the given format.
func String(sheet *cssom.Stylesheet, f cssom.Format) (string, error) {
	var b strings.Builder
	if sheet == nil {
		return "", nil
	}
	if err := sheet.Write(&b, f); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Minify parses, flattens and minifies CSS source text.
func Minify(css string) (string, error) {
	sheet, err := ParseString(css, nil)
	if err != nil {
		return "", err
	}
	return String(Flatten(sheet), cssom.Format{Minify: true})
}
