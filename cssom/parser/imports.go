package parser

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/npillmayer/csskit/cssom"
)

// ImportFetcher retrieves the source text of an imported stylesheet.
// Fetching is always done by the client; the parser never does I/O on its own.
type ImportFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the ImportFetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// ImportReason classifies failed imports.
type ImportReason uint8

// Reasons for failed imports.
const (
	DisallowedScheme    ImportReason = iota + 1 // URL scheme not in Options.AllowedSchemes
	DisallowedExtension                         // not a .css resource
	ImportDepthExceeded                         // @import chain longer than Options.MaxImportDepth
	CircularReference                           // stylesheet imports itself, directly or indirectly
	FetchFailed                                 // fetcher returned an error
)

func (r ImportReason) String() string {
	switch r {
	case DisallowedScheme:
		return "disallowed scheme"
	case DisallowedExtension:
		return "disallowed extension"
	case ImportDepthExceeded:
		return "import depth exceeded"
	case CircularReference:
		return "circular reference"
	case FetchFailed:
		return "fetch failed"
	}
	return "unknown reason"
}

// ImportError reports a failed @import.
type ImportError struct {
	URL    string
	Reason ImportReason
	Err    error // underlying error, if any
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("css: @import %q: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("css: @import %q: %s", e.URL, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ResolveImports fetches the stylesheets named by @import statements of sheet
// and splices them into place, recursively. Imports are resolved in document
// order; the first failure stops resolution and is returned, leaving the
// remaining imports unresolved.
//
// Parse errors of imported stylesheets are returned as they are.
func ResolveImports(ctx context.Context, sheet *cssom.Stylesheet, opts *Options) error {
	o := opts.withDefaults()
	if o.Fetcher == nil {
		return errors.New("css: no fetcher for imports")
	}
	return resolve(ctx, sheet, o, nil)
}

func resolve(ctx context.Context, sheet *cssom.Stylesheet, opts *Options, chain []string) error {
	for i := 0; i < sheet.Len(); i++ {
		imp, ok := sheet.Entry(i).(*cssom.ImportStatement)
		if !ok || imp.Resolved {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := checkImport(imp.URL, opts, chain); err != nil {
			return err
		}
		tracer().Debugf("css: fetching @import %q", imp.URL)
		src, err := opts.Fetcher.Fetch(ctx, imp.URL)
		if err != nil {
			var ierr *ImportError
			if errors.As(err, &ierr) {
				return err
			}
			return &ImportError{URL: imp.URL, Reason: FetchFailed, Err: err}
		}
		sub, err := Parse(string(src), opts)
		if err != nil {
			return err
		}
		if err = resolve(ctx, sub, opts, append(chain, imp.URL)); err != nil {
			return err
		}
		n := sub.Len()
		if err = sheet.SpliceImport(i, sub); err != nil {
			return err
		}
		i += n
	}
	return nil
}

func checkImport(ref string, opts *Options, chain []string) error {
	if len(chain) >= opts.MaxImportDepth {
		return &ImportError{URL: ref, Reason: ImportDepthExceeded}
	}
	for _, u := range chain {
		if u == ref {
			return &ImportError{URL: ref, Reason: CircularReference}
		}
	}
	u, err := url.Parse(ref)
	if err != nil {
		return &ImportError{URL: ref, Reason: DisallowedScheme, Err: err}
	}
	if u.Scheme != "" && !schemeAllowed(u.Scheme, opts.AllowedSchemes) {
		return &ImportError{URL: ref, Reason: DisallowedScheme}
	}
	return nil
}

func schemeAllowed(scheme string, allowed []string) bool {
	for _, s := range allowed {
		if strings.EqualFold(s, scheme) {
			return true
		}
	}
	return false
}

// FSFetcher fetches imports from a file system. URLs are interpreted as
// slash-separated paths, optionally with a "file://" prefix. Only files with
// extension ".css" are served.
type FSFetcher struct {
	FS fs.FS
}

// Fetch reads the file named by url.
func (f FSFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	name := strings.TrimPrefix(url, "file://")
	name = path.Clean(strings.TrimPrefix(name, "/"))
	if !strings.EqualFold(path.Ext(name), ".css") {
		return nil, &ImportError{URL: url, Reason: DisallowedExtension}
	}
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return fs.ReadFile(f.FS, name)
}
