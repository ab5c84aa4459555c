/*
Package parser reads CSS source text into a cssom.Stylesheet.

Overview

Tokenization is done by the scanner of github.com/gorilla/css. On top of the
token stream, the parser reads style rules, nested rule blocks, conditional
at-rules (@media, @supports) and opaque at-rules (@font-face, @keyframes, …).

Selector lists are split into independent rules. CSS nesting is resolved while
parsing: the body of a style rule is read into a small tree of blocks, which
is then resolved top-down into flat rules with fully addressed selectors,
either by substituting '&' or by implicit descendant nesting:

    .parent { color: red; .child { color: blue; } }

results in two rules

    .parent { color: red; }
    .parent .child { color: blue; }

Declarations found directly within a block are collected into one rule for the
block's selector, regardless of their position relative to nested blocks.
A nested @media block produces separate rules scoped to the composed media
context. Rules carry a nesting annotation which allows serializing them back in
nested form.

Errors

Parsing is lenient by default: malformed selectors, declarations and at-rules
are skipped, the smallest possible unit at a time. Strict mode, either for all
kinds of errors or for selected ones, turns these conditions into a *ParseError.
Resource limits (nesting depth, number of media contexts, number of resolved
selectors) are enforced in every mode and reported as a *LimitError.

Common situations like a late @import are not errors. They are reported as
diagnostics on the stylesheet and to an optional callback.

@import statements are recorded, but never fetched by Parse. ResolveImports
drives an ImportFetcher supplied by the client and splices the imported
stylesheets into place.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'csskit.parser'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.parser")
}
