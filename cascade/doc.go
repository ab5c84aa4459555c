/*
Package cascade resolves the CSS cascade over the rules of a stylesheet.

Overview

Flattening reduces a stylesheet to one rule per distinct pair of resolved
selector and media context. Rules under different media contexts are never
merged, even if their selectors are identical, as they apply to mutually
exclusive environments.

Within a group of rules, shorthand declarations are expanded to their
longhands first, so that a later longhand may override part of an earlier
shorthand. For every longhand the winning declaration is selected by

    1. importance: !important beats normal declarations
    2. specificity of the contributing rule
    3. source order: later declarations win

Shorthands whose value contains var(…) cannot be expanded before substitution.
Such a shorthand competes as a whole and is kept behind any of its longhands it
wins against, so the result reads correctly in source order.

Afterwards shorthands are re-formed wherever a complete set of uniformly
important longhands has survived (see package style).

Specificity is the flattened integer weight of package specificity, not the
vector comparison of CSS Selectors Level 4. Ten class selectors therefore
weigh as much as one ID selector.

Status

The API may still change. Please be patient.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cascade

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.cascade'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.cascade")
}
