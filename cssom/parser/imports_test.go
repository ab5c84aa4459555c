package parser

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/npillmayer/csskit/cssom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFS = fstest.MapFS{
	"base.css":        {Data: []byte("h1 { x: 1 }")},
	"print.css":       {Data: []byte("@import 'nested/deep.css'; h2 { y: 2 }")},
	"nested/deep.css": {Data: []byte("h3 { z: 3 }")},
	"a.css":           {Data: []byte("@import 'b.css'; a { x: 1 }")},
	"b.css":           {Data: []byte("@import 'a.css'; b { x: 1 }")},
	"notes.txt":       {Data: []byte("p { x: 1 }")},
}

func TestResolveImports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.parser")
	defer teardown()
	//
	sheet := mustParse(t, `@import "base.css"; @import url(file:///print.css) print; p { color: red; }`)
	opts := &Options{Fetcher: FSFetcher{FS: testFS}}
	require.NoError(t, ResolveImports(context.Background(), sheet, opts))
	rules := sheet.Rules()
	assert.Equal(t, []string{"h1", "h3", "h2", "p"}, selectors(rules))
	assert.Equal(t, cssom.MediaAll, rules[0].MediaKey())
	assert.Equal(t, cssom.MediaKey("print"), rules[1].MediaKey())
	assert.Equal(t, cssom.MediaKey("print"), rules[2].MediaKey())
	for _, imp := range sheet.Imports() {
		assert.True(t, imp.Resolved, "%s", imp)
	}
	for i, e := range sheet.Entries() {
		assert.Equal(t, i, e.ID())
	}
	assert.Equal(t, []int{rules[1].ID(), rules[2].ID()}, sheet.MediaIndex()["print"])
}

func TestImportErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.parser")
	defer teardown()
	//
	var tests = []struct {
		css    string
		opts   Options
		reason ImportReason
	}{
		{`@import "ftp://example.com/x.css";`, Options{}, DisallowedScheme},
		{`@import "https://example.com/x.css";`, Options{AllowedSchemes: []string{"file"}}, DisallowedScheme},
		{`@import "notes.txt";`, Options{}, DisallowedExtension},
		{`@import "a.css";`, Options{}, CircularReference},
		{`@import "print.css";`, Options{MaxImportDepth: 1}, ImportDepthExceeded},
		{`@import "missing.css";`, Options{}, FetchFailed},
	}
	for i, tt := range tests {
		sheet := mustParse(t, tt.css)
		opts := tt.opts
		opts.Fetcher = FSFetcher{FS: testFS}
		err := ResolveImports(context.Background(), sheet, &opts)
		var ierr *ImportError
		if !errors.As(err, &ierr) {
			t.Errorf("test %d: expected import error, is %v", i, err)
			continue
		}
		assert.Equal(t, tt.reason, ierr.Reason, "test %d: %v", i, err)
	}
}

func TestImportFetcherFunc(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "csskit.parser")
	defer teardown()
	//
	var fetched []string
	fetcher := FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		fetched = append(fetched, url)
		return []byte("@media screen { h1 { x: 1 } }"), nil
	})
	sheet := mustParse(t, `@import "https://example.com/a.css" print; p { x: 2 }`)
	require.NoError(t, ResolveImports(context.Background(), sheet, &Options{Fetcher: fetcher}))
	assert.Equal(t, []string{"https://example.com/a.css"}, fetched)
	assert.Equal(t, cssom.MediaKey("print and screen"), sheet.Rules()[0].MediaKey())
	assert.Error(t, ResolveImports(context.Background(), sheet, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sheet = mustParse(t, `@import "a.css";`)
	assert.True(t, errors.Is(ResolveImports(ctx, sheet, &Options{Fetcher: fetcher}), context.Canceled))
}
