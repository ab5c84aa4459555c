package cssom

import (
	"strings"
)

// Declaration is a property/value pair of a rule, e.g.
//
//    margin-top: 3px !important
//
// Declarations are mutable triples; collaborators like unit- or color-converters
// are free to rewrite values in place (see ValueTransformer).
type Declaration struct {
	Property  string // normalized property name
	Value     string // raw value text, without "!important"
	Important bool   // has the value been marked as important?
}

// NewDeclaration creates a declaration with a normalized property name.
func NewDeclaration(property, value string, important bool) Declaration {
	return Declaration{
		Property:  NormalizeProperty(property),
		Value:     strings.TrimSpace(value),
		Important: important,
	}
}

// NormalizeProperty trims a property name and converts it to lower case.
// Custom properties ("--name") are case-sensitive and are left as they are.
func NormalizeProperty(property string) string {
	property = strings.TrimSpace(property)
	if IsCustomProperty(property) {
		return property
	}
	return strings.ToLower(property)
}

// IsCustomProperty is a predicate for custom property names ("--name").
func IsCustomProperty(property string) bool {
	return strings.HasPrefix(property, "--")
}

// IsCustom returns true for custom properties, e.g. "--main-color".
func (d Declaration) IsCustom() bool {
	return IsCustomProperty(d.Property)
}

// String writes a declaration without the terminating semicolon.
func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important"
	}
	return d.Property + ": " + d.Value
}

// Declarations is an ordered list of declarations.
// A property should occur at most once; Set takes care of that.
type Declarations []Declaration

// Index returns the position of a property or -1.
// Property names are compared case-insensitively, except for custom properties.
func (ds Declarations) Index(property string) int {
	property = NormalizeProperty(property)
	for i, d := range ds {
		if d.Property == property {
			return i
		}
	}
	return -1
}

// Get returns the declaration for a property, if present.
func (ds Declarations) Get(property string) (Declaration, bool) {
	if i := ds.Index(property); i >= 0 {
		return ds[i], true
	}
	return Declaration{}, false
}

// Value returns the value for a property or the empty string.
func (ds Declarations) Value(property string) string {
	d, _ := ds.Get(property)
	return d.Value
}

// Set adds a declaration. If the property is already present, its declaration is
// replaced in place, thus keeping the position of the first occurrence.
func (ds *Declarations) Set(d Declaration) {
	d.Property = NormalizeProperty(d.Property)
	if i := ds.Index(d.Property); i >= 0 {
		(*ds)[i] = d
		return
	}
	*ds = append(*ds, d)
}

// Redeclare adds a declaration the way a later declaration of the same block
// does: an earlier declaration of the property is removed and d is appended,
// so the list stays in source order. A normal declaration does not replace an
// important one; Redeclare returns false in this case.
func (ds *Declarations) Redeclare(d Declaration) bool {
	d.Property = NormalizeProperty(d.Property)
	if old, ok := ds.Get(d.Property); ok {
		if old.Important && !d.Important {
			return false
		}
		ds.Remove(d.Property)
	}
	*ds = append(*ds, d)
	return true
}

// Remove deletes the declaration for a property. It returns false if the
// property has not been present.
func (ds *Declarations) Remove(property string) bool {
	i := ds.Index(property)
	if i < 0 {
		return false
	}
	*ds = append((*ds)[:i], (*ds)[i+1:]...)
	return true
}

// Clone returns a copy of the list.
func (ds Declarations) Clone() Declarations {
	if ds == nil {
		return nil
	}
	c := make(Declarations, len(ds))
	copy(c, ds)
	return c
}

// Equal compares two declaration lists, respecting order.
func (ds Declarations) Equal(other Declarations) bool {
	if len(ds) != len(other) {
		return false
	}
	for i := range ds {
		if ds[i] != other[i] {
			return false
		}
	}
	return true
}

// String writes all declarations, each terminated by a semicolon, e.g.
//
//    color: red; margin: 0;
//
func (ds Declarations) String() string {
	var b strings.Builder
	for i, d := range ds {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.String())
		b.WriteByte(';')
	}
	return b.String()
}
