package parser

import (
	"github.com/npillmayer/csskit/cssom"
)

// Reference values for resource limits.
const (
	DefaultMaxDepth              = 10
	DefaultMaxPropertyNameLength = 256
	DefaultMaxValueLength        = 32 * 1024
	DefaultMaxMediaKeys          = cssom.DefaultMaxMediaKeys
	DefaultMaxSelectors          = 4096
	DefaultMaxBlockLength        = 1024 * 1024
	DefaultMaxImportDepth        = 5
)

// Strictness selects the kinds of errors which abort parsing. Errors of other
// kinds cause the offending item to be skipped.
type Strictness uint8

// StrictAll makes every kind of error fatal.
const StrictAll Strictness = 1<<uint(errorKindCount) - 1

// StrictFor creates a strictness for a set of error kinds.
func StrictFor(kinds ...ErrorKind) Strictness {
	var s Strictness
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

// Includes is true if errors of kind k are fatal.
func (s Strictness) Includes(k ErrorKind) bool {
	return s&(1<<uint(k)) != 0
}

// Options control parsing. A nil *Options or zero fields select the defaults.
type Options struct {
	Strict Strictness // error kinds which abort parsing; lenient if 0

	MaxDepth              int // maximum nesting depth of blocks
	MaxPropertyNameLength int // longer declarations are rejected
	MaxValueLength        int // longer declarations are rejected
	MaxMediaKeys          int // maximum number of distinct media contexts
	MaxSelectors          int // maximum number of resolved selectors per rule
	MaxBlockLength        int // maximum length of an opaque at-rule body

	Media []cssom.MediaKey // initial media context, used by AddBlock

	Fetcher        ImportFetcher // used by ResolveImports
	MaxImportDepth int           // maximum nesting of @import chains
	AllowedSchemes []string      // URL schemes for imports; relative URLs are always allowed

	OnWarning func(cssom.Diagnostic) // called for every non-fatal diagnostic
}

// DefaultOptions returns lenient options with the reference resource limits.
func DefaultOptions() *Options {
	return &Options{
		MaxDepth:              DefaultMaxDepth,
		MaxPropertyNameLength: DefaultMaxPropertyNameLength,
		MaxValueLength:        DefaultMaxValueLength,
		MaxMediaKeys:          DefaultMaxMediaKeys,
		MaxSelectors:          DefaultMaxSelectors,
		MaxBlockLength:        DefaultMaxBlockLength,
		MaxImportDepth:        DefaultMaxImportDepth,
		AllowedSchemes:        []string{"https", "http", "file"},
	}
}

// withDefaults returns a copy of opts with every unset field defaulted.
func (opts *Options) withDefaults() *Options {
	d := DefaultOptions()
	if opts == nil {
		return d
	}
	o := *opts
	setDefault(&o.MaxDepth, d.MaxDepth)
	setDefault(&o.MaxPropertyNameLength, d.MaxPropertyNameLength)
	setDefault(&o.MaxValueLength, d.MaxValueLength)
	setDefault(&o.MaxMediaKeys, d.MaxMediaKeys)
	setDefault(&o.MaxSelectors, d.MaxSelectors)
	setDefault(&o.MaxBlockLength, d.MaxBlockLength)
	setDefault(&o.MaxImportDepth, d.MaxImportDepth)
	if o.AllowedSchemes == nil {
		o.AllowedSchemes = d.AllowedSchemes
	}
	return &o
}

func setDefault(v *int, d int) {
	if *v <= 0 {
		*v = d
	}
}
