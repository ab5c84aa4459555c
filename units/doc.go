/*
Package units classifies and converts CSS dimensions.

Dimensions are represented by DimenT, an option type covering the keywords
auto, inherit and initial, absolute lengths, percentages, font- and
viewport-relative lengths, and content-based sizes. Absolute lengths are held
as typesetting units of package github.com/npillmayer/tyse/core/dimen.

Normalizer is a cssom.ValueTransformer which rewrites absolute lengths in
declaration values to a single target unit, e.g. "1in" to "96px".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package units

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'csskit.units'.
func tracer() tracing.Trace {
	return tracing.Select("csskit.units")
}
