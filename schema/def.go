package schema

import (
	"github.com/expr-lang/expr/vm"
)

// Def is a named definition held by a Registry: *Record or *Union.
type Def interface {
	DefName() string
	clone() Def
}

// UnknownPolicy says what a record does with keys it does not declare.
type UnknownPolicy int

const (
	// UnknownIgnore accepts and drops undeclared keys.
	UnknownIgnore UnknownPolicy = iota
	// UnknownForbid rejects undeclared keys.
	UnknownForbid
	// UnknownAllow keeps undeclared keys, validating their values against
	// Record.Additional when it is set.
	UnknownAllow
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownIgnore:
		return "ignore"
	case UnknownForbid:
		return "forbid"
	case UnknownAllow:
		return "allow"
	default:
		return "unknown-policy(?)"
	}
}

// Record defines an object type.
type Record struct {
	Name        string
	Title       string
	Description string
	Fields      []*Field

	Unknown    UnknownPolicy
	Additional *Type // value type of undeclared keys under UnknownAllow

	Rules []*Rule
}

func (r *Record) DefName() string { return r.Name }

// Field returns the field with the given name, or nil.
func (r *Record) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (r *Record) clone() Def {
	c := *r
	c.Fields = make([]*Field, len(r.Fields))
	for i, f := range r.Fields {
		fc := *f
		fc.Type = f.Type.Clone()
		fc.Default = deepCopy(f.Default)
		if f.Examples != nil {
			fc.Examples = make([]any, len(f.Examples))
			for j, e := range f.Examples {
				fc.Examples[j] = deepCopy(e)
			}
		}
		c.Fields[i] = &fc
	}
	c.Additional = r.Additional.Clone()
	if r.Rules != nil {
		c.Rules = make([]*Rule, len(r.Rules))
		for i, rl := range r.Rules {
			rc := *rl
			c.Rules[i] = &rc
		}
	}
	return &c
}

// Field is a named, typed member of a Record.
type Field struct {
	Name     string
	Type     *Type
	Required bool

	// Default is the decoded JSON value used when an optional field is
	// absent or null.  nil means no default.
	Default any

	Description string
	Examples    []any
}

// Rule is a boolean expr-lang expression evaluated over a record's
// normalized fields after they validate.  Field names are variables; absent
// optional fields evaluate to nil.
type Rule struct {
	Expr    string
	Message string
	// Field names the field a violation is reported at; empty reports it at
	// the record itself.
	Field string

	prog *vm.Program
}

// Union is a discriminated union over records.  The Tag field of a value
// selects the variant.
type Union struct {
	Name        string
	Description string
	Tag         string
	Variants    []*Variant
}

func (u *Union) DefName() string { return u.Name }

// Values returns every tag value accepted by the union, in declaration
// order.
func (u *Union) Values() []string {
	var res []string
	for _, v := range u.Variants {
		res = append(res, v.Values...)
	}
	return res
}

// Variant returns the variant accepting tag value, or nil.
func (u *Union) Variant(value string) *Variant {
	for _, v := range u.Variants {
		for _, x := range v.Values {
			if x == value {
				return v
			}
		}
	}
	return nil
}

func (u *Union) clone() Def {
	c := *u
	c.Variants = make([]*Variant, len(u.Variants))
	for i, v := range u.Variants {
		vc := *v
		vc.Values = append([]string(nil), v.Values...)
		c.Variants[i] = &vc
	}
	return &c
}

// Variant maps tag values to the record describing values with that tag.
type Variant struct {
	Values []string
	Record string

	target int
}
