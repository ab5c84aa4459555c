/*
Package csskit parses CSS stylesheets and resolves the CSS cascade.

Overview

The functions of this package are shortcuts for the common pipeline

    parse ⟶ flatten ⟶ serialize

Clients needing more control will use the sub-packages directly:

    cssom            the stylesheet object model and its serializer
    cssom/parser     the structural parser, options and @import resolution
    cascade          flattening of rules by importance, specificity and order
    style            shorthand expansion and synthesis
    specificity      selector specificity
    units            dimension parsing and unit normalization
    cssom/douceuradapter  interop with github.com/aymerick/douceur
    cssdbg           debugging helpers

Status

The API may still change. Please be patient.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package csskit
