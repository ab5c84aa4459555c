/*
Package specificity computes selector weights for the cascade.

Overview

Weights are flattened into a single integer: every ID selector contributes 100,
every class, attribute selector and pseudo-class contributes 10, and every type
selector and pseudo-element contributes 1. The universal selector and all
combinators contribute nothing.

This is an approximation of the CSS3 rules. Selectors Level 3 compares the three
counts as a vector, so ten classes never outweigh one ID. With flattened weights
they tie. Callers depending on the flattened values (and downstream tests do) will
get stable results; callers in need of the canonical comparison may use VectorOf,
which delegates to https://godoc.org/github.com/andybalholm/cascadia.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package specificity

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'csskit.specificity'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.specificity")
}
