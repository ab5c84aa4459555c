package cssom

import "strings"

// ValueTransformer rewrites declaration values, e.g. to convert units or
// color spaces. TransformValue returns the replacement value and true, or
// false if the value is to be left untouched.
type ValueTransformer interface {
	TransformValue(property, value string) (string, bool)
}

// ValueTransformerFunc adapts a function to the ValueTransformer interface.
type ValueTransformerFunc func(property, value string) (string, bool)

// TransformValue calls f(property, value).
func (f ValueTransformerFunc) TransformValue(property, value string) (string, bool) {
	return f(property, value)
}

// Transform applies a value transformer to every declaration of every rule.
// Custom properties are passed to the transformer as well. It returns the
// number of values changed.
func (s *Stylesheet) Transform(t ValueTransformer) int {
	n := 0
	for _, r := range s.Rules() {
		for i, d := range r.Declarations {
			if v, ok := t.TransformValue(d.Property, d.Value); ok && v != d.Value {
				r.Declarations[i].Value = v
				n++
			}
		}
	}
	tracer().Debugf("cssom: transformed %d values", n)
	return n
}

var opaqueFunctions = []string{
	"url(", "calc(", "var(", "env(", "attr(",
	"min(", "max(", "clamp(",
	"linear-gradient(", "radial-gradient(", "conic-gradient(",
	"repeating-linear-gradient(", "repeating-radial-gradient(", "repeating-conic-gradient(",
}

// IsOpaqueValue is true for values which transformers should not touch, as
// they contain a function whose arguments must not be rewritten individually,
// such as url(…), calc(…), var(…) or gradients.
func IsOpaqueValue(value string) bool {
	v := strings.ToLower(value)
	for _, f := range opaqueFunctions {
		if strings.Contains(v, f) {
			return true
		}
	}
	return false
}
