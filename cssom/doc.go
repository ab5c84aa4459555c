/*
Package cssom provides the object model for parsed CSS stylesheets.

Overview

CSSOM is the "CSS Object Model", similar to the DOM for HTML. A Stylesheet is an
insertion-ordered sequence of entries: style rules, opaque at-rule blocks (such as
@font-face or @keyframes), and @import statements. Every entry is assigned a dense,
non-negative id when it is added. Ids never change while a stylesheet is built up;
they are renumbered only by explicit compaction (Compact, SpliceImport, and the
flattening of package cascade).

Rules carry fully resolved selectors: nesting has already been flattened by the
parser, and every rule of a selector list is an independent rule. A rule knows
the media contexts it applies to. The stylesheet maintains an index from media
context keys to entry ids, bounded in size to protect against pathological input.

Package cssom does not parse CSS; see sub-package parser. It does know how to
write a stylesheet back to CSS text, either compact (one line per rule) or
indented, optionally reproducing nested rules.

Status

The API may still change. Please be patient.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'csskit.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.cssom")
}
