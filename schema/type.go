package schema

import (
	"regexp"
	"strings"
)

// Kind identifies the shape of a Type.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindArray
	KindTuple
	KindMap
	KindRef
	KindOneOf
)

var kindNames = [...]string{
	KindAny:     "any",
	KindString:  "string",
	KindInteger: "integer",
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindArray:   "array",
	KindTuple:   "tuple",
	KindMap:     "map",
	KindRef:     "ref",
	KindOneOf:   "oneOf",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(?)"
}

// Type is a type expression used by record fields.
//
// Types are values: the modifier methods return modified copies, and a
// registry clones every type it is given.
type Type struct {
	Kind Kind

	Ref   string  // KindRef: name of the referenced definition
	Elem  *Type   // KindArray, KindMap: element / value type
	Items []*Type // KindTuple: positional item types
	Alts  []*Type // KindOneOf: alternatives, tried in order

	Nullable bool // null is accepted as a value

	Enum     []any    // allowed values
	Minimum  *float64 // inclusive lower bound for numbers
	Pattern  string   // regular expression for strings
	MinItems *int     // KindArray
	MaxItems *int     // KindArray
	UniqueBy string   // KindArray of records: field whose values must be unique

	target int // 1 + index of the referenced definition once resolved
	re     *regexp.Regexp
}

func String() *Type  { return &Type{Kind: KindString} }
func Integer() *Type { return &Type{Kind: KindInteger} }
func Number() *Type  { return &Type{Kind: KindNumber} }
func Boolean() *Type { return &Type{Kind: KindBoolean} }
func Any() *Type     { return &Type{Kind: KindAny} }

// Ref refers to a definition by name.  The name need not be defined yet.
func Ref(name string) *Type { return &Type{Kind: KindRef, Ref: name} }

func ArrayOf(elem *Type) *Type { return &Type{Kind: KindArray, Elem: elem} }

// MapOf is an object with arbitrary keys whose values have type elem.
func MapOf(elem *Type) *Type { return &Type{Kind: KindMap, Elem: elem} }

// TupleOf is a fixed-length array with one type per position.
func TupleOf(items ...*Type) *Type { return &Type{Kind: KindTuple, Items: items} }

// OneOf accepts the first alternative a value validates against.
func OneOf(alts ...*Type) *Type { return &Type{Kind: KindOneOf, Alts: alts} }

// OrNull returns a copy of t that also accepts null.
func (t *Type) OrNull() *Type {
	c := t.Clone()
	c.Nullable = true
	return c
}

// Min returns a copy of t with an inclusive minimum.
func (t *Type) Min(v float64) *Type {
	c := t.Clone()
	c.Minimum = &v
	return c
}

// Match returns a copy of t whose string values must match pattern.
func (t *Type) Match(pattern string) *Type {
	c := t.Clone()
	c.Pattern = pattern
	return c
}

// Len returns a copy of t with array length bounds; a negative bound is
// left unset.
func (t *Type) Len(min, max int) *Type {
	c := t.Clone()
	if min >= 0 {
		c.MinItems = &min
	}
	if max >= 0 {
		c.MaxItems = &max
	}
	return c
}

// OneOfValues returns a copy of t restricted to the given values.
func (t *Type) OneOfValues(vals ...any) *Type {
	c := t.Clone()
	c.Enum = make([]any, len(vals))
	copy(c.Enum, vals)
	return c
}

// Unique returns a copy of an array type whose record elements must carry
// distinct values in field.
func (t *Type) Unique(field string) *Type {
	c := t.Clone()
	c.UniqueBy = field
	return c
}

// Clone returns a deep copy of t.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}
	c := *t
	c.Elem = t.Elem.Clone()
	c.Items = cloneTypes(t.Items)
	c.Alts = cloneTypes(t.Alts)
	if t.Enum != nil {
		c.Enum = make([]any, len(t.Enum))
		for i, e := range t.Enum {
			c.Enum[i] = deepCopy(e)
		}
	}
	if t.Minimum != nil {
		m := *t.Minimum
		c.Minimum = &m
	}
	if t.MinItems != nil {
		m := *t.MinItems
		c.MinItems = &m
	}
	if t.MaxItems != nil {
		m := *t.MaxItems
		c.MaxItems = &m
	}
	return &c
}

func cloneTypes(ts []*Type) []*Type {
	if ts == nil {
		return nil
	}
	res := make([]*Type, len(ts))
	for i, t := range ts {
		res[i] = t.Clone()
	}
	return res
}

// String renders t in a compact notation used in error messages, such as
// "array of Track" or "string or AxisSpecificLocks".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var s string
	switch t.Kind {
	case KindRef:
		s = t.Ref
	case KindArray:
		s = "array of " + t.Elem.String()
	case KindMap:
		s = "map of " + t.Elem.String()
	case KindTuple:
		parts := make([]string, len(t.Items))
		for i, it := range t.Items {
			parts[i] = it.String()
		}
		s = "[" + strings.Join(parts, ", ") + "]"
	case KindOneOf:
		parts := make([]string, len(t.Alts))
		for i, a := range t.Alts {
			parts[i] = a.String()
		}
		s = strings.Join(parts, " or ")
	default:
		s = t.Kind.String()
	}
	if t.Nullable {
		s += " or null"
	}
	return s
}

// walk calls f on t and every type nested within it.
func (t *Type) walk(f func(*Type) error) error {
	if t == nil {
		return nil
	}
	if err := f(t); err != nil {
		return err
	}
	if err := t.Elem.walk(f); err != nil {
		return err
	}
	for _, it := range t.Items {
		if err := it.walk(f); err != nil {
			return err
		}
	}
	for _, a := range t.Alts {
		if err := a.walk(f); err != nil {
			return err
		}
	}
	return nil
}

// deepCopy copies decoded JSON values so that callers cannot alias
// registry-owned data.
func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			res[k] = deepCopy(e)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, e := range x {
			res[i] = deepCopy(e)
		}
		return res
	default:
		return v
	}
}
