package cssom

import (
	"strings"
)

// MediaKey identifies a media context: the condition under which a rule applies.
//
// A key is either MediaAll, an atomic media type like "screen" (always lower case),
// or a composite condition string preserving the original text with whitespace
// collapsed, e.g. "screen and (min-width: 768px)". Conditions of @supports rules
// are keyed as "@supports (display: grid)".
//
// Nested media conditions are composed by concatenation with "and". Nesting a
// @supports into a media context, or vice versa, appends the inner at-rule
// prelude, e.g. "screen @supports (display: grid)".
//
// Keys are compared textually. Conditions which are semantically equal but
// written differently are distinct keys.
type MediaKey string

// MediaAll is the key for rules without any media condition.
const MediaAll MediaKey = "all"

const (
	supportsMarker = "@supports "
	mediaMarker    = "@media "
)

// MediaKeyFor normalizes a single @media condition into a key.
// An empty condition is MediaAll.
func MediaKeyFor(condition string) MediaKey {
	c := CollapseWhitespace(condition)
	if c == "" {
		return MediaAll
	}
	if isAtomicCondition(c) {
		return MediaKey(strings.ToLower(c))
	}
	return MediaKey(c)
}

// MediaKeysFor splits a media query list, e.g. the media list of an @import,
// into one key per query. An empty list is MediaAll.
func MediaKeysFor(list string) []MediaKey {
	var keys []MediaKey
	for _, q := range SplitSelectorList(list) {
		if q != "" {
			keys = append(keys, MediaKeyFor(q))
		}
	}
	if len(keys) == 0 {
		return []MediaKey{MediaAll}
	}
	return keys
}

// SupportsKeyFor creates a key for a @supports condition.
func SupportsKeyFor(condition string) MediaKey {
	return MediaKey(supportsMarker + CollapseWhitespace(condition))
}

// IsAtomic is true for MediaAll and for plain media types like "print".
func (k MediaKey) IsAtomic() bool {
	return isAtomicCondition(string(k))
}

func isAtomicCondition(c string) bool {
	if c == "" {
		return false
	}
	for _, r := range c {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

// ComposeMedia nests a @media condition key into an outer context.
func ComposeMedia(outer, inner MediaKey) MediaKey {
	if inner == MediaAll || inner == "" {
		return outer
	}
	if outer == MediaAll || outer == "" {
		return inner
	}
	if strings.HasPrefix(string(inner), supportsMarker) {
		return outer + " " + inner
	}
	if segs := outer.segments(); strings.HasPrefix(segs[len(segs)-1], supportsMarker) {
		return outer + " " + mediaMarker + inner
	}
	return outer + " and " + inner
}

// segments splits a key into the preludes of the at-rules it has been composed of.
// Media conditions are returned without the "@media " marker.
func (k MediaKey) segments() []string {
	s := string(k)
	var segs []string
	for {
		i := nextMarker(s)
		if i < 0 {
			segs = append(segs, s)
			return segs
		}
		segs = append(segs, s[:i])
		s = s[i+1:]
		s = strings.TrimPrefix(s, mediaMarker)
	}
}

func nextMarker(s string) int {
	i := strings.Index(s, " "+supportsMarker)
	j := strings.Index(s, " "+mediaMarker)
	if i < 0 || (j >= 0 && j < i) {
		return j
	}
	return i
}

// MediaKeyOf returns the key under which a set of media contexts are grouped.
// An empty set is MediaAll.
func MediaKeyOf(keys []MediaKey) MediaKey {
	switch len(keys) {
	case 0:
		return MediaAll
	case 1:
		return keys[0]
	}
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = string(k)
	}
	return MediaKey(strings.Join(s, ", "))
}

// IsAll is true if a set of media keys is either empty or consists of MediaAll only.
func IsAll(keys []MediaKey) bool {
	for _, k := range keys {
		if k != MediaAll {
			return false
		}
	}
	return true
}

func containsKey(keys []MediaKey, key MediaKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// CollapseWhitespace trims s and replaces every run of whitespace by a single
// blank. Quoted strings are left untouched.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
			continue
		case '"', '\'':
			quote = c
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteByte(c)
	}
	return b.String()
}
