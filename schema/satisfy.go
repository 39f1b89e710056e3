package schema

// Satisfiability of definitions
//
// A definition is unsatisfiable when every value it describes must contain
// another value of the same definition, for example a record whose
// required, non-nullable field refers back to the record.  Such a
// definition validates no finite document.
//
// Each definition is checked by building a boolean circuit over the
// required structure of its values.  References are expanded inline, and
// a reference to a definition already being expanded becomes the constant
// false: it contributes no finite value.  Leaves allocate one variable per
// (position, kind) pair; different kinds at one position are mutually
// exclusive.  The definition is satisfiable iff the circuit is.
//
// Optional fields, nullable types and arrays that may be empty are escape
// hatches and contribute true.

import (
	"fmt"
	"slices"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

type satVar struct {
	position string
	kind     Kind
}

type satBuilder struct {
	r       *Registry
	c       *logic.C
	path    string
	vars    map[satVar]z.Lit
	mutexes map[string][]z.Lit
	stack   []int
}

func newSatBuilder(r *Registry) *satBuilder {
	return &satBuilder{
		r:       r,
		c:       logic.NewC(),
		vars:    map[satVar]z.Lit{},
		mutexes: map[string][]z.Lit{},
	}
}

func (b *satBuilder) def(target int) z.Lit {
	if slices.Contains(b.stack, target) {
		return b.c.F
	}
	b.stack = append(b.stack, target)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	switch d := b.r.defs[target-1].(type) {
	case *Record:
		saved := b.path
		defer func() { b.path = saved }()
		var lits []z.Lit
		for _, f := range d.Fields {
			if !f.Required || f.Default != nil {
				continue
			}
			b.path = saved + "." + f.Name
			lits = append(lits, b.typ(f.Type))
		}
		return b.ands(lits)
	case *Union:
		lits := make([]z.Lit, 0, len(d.Variants))
		for _, v := range d.Variants {
			lits = append(lits, b.def(v.target))
		}
		return b.ors(lits)
	}
	return b.c.F
}

func (b *satBuilder) typ(t *Type) z.Lit {
	if t.Nullable {
		return b.c.T
	}
	if t.Enum != nil && len(t.Enum) == 0 {
		return b.c.F
	}
	switch t.Kind {
	case KindAny:
		return b.c.T
	case KindRef:
		return b.def(t.target)
	case KindArray:
		arr := b.leaf(KindArray)
		if t.MinItems == nil || *t.MinItems == 0 {
			return arr
		}
		saved := b.path
		b.path = saved + "[]"
		elem := b.typ(t.Elem)
		b.path = saved
		return b.c.And(arr, elem)
	case KindTuple:
		saved := b.path
		lits := []z.Lit{b.leaf(KindArray)}
		for i, it := range t.Items {
			b.path = fmt.Sprintf("%s[%d]", saved, i)
			lits = append(lits, b.typ(it))
		}
		b.path = saved
		return b.ands(lits)
	case KindOneOf:
		lits := make([]z.Lit, 0, len(t.Alts))
		for _, a := range t.Alts {
			lits = append(lits, b.typ(a))
		}
		return b.ors(lits)
	default:
		return b.leaf(t.Kind)
	}
}

func (b *satBuilder) ands(lits []z.Lit) z.Lit {
	if len(lits) == 0 {
		return b.c.T
	}
	return b.c.Ands(lits...)
}

func (b *satBuilder) ors(lits []z.Lit) z.Lit {
	if len(lits) == 0 {
		return b.c.F
	}
	return b.c.Ors(lits...)
}

func (b *satBuilder) leaf(k Kind) z.Lit {
	key := satVar{b.path, k}
	if lit, ok := b.vars[key]; ok {
		return lit
	}
	lit := b.c.Lit()
	b.vars[key] = lit
	b.mutexes[b.path] = append(b.mutexes[b.path], lit)
	return lit
}

func (b *satBuilder) satisfiable(formula z.Lit) bool {
	g := gini.New()
	b.c.ToCnf(g)
	for _, lits := range b.mutexes {
		for i := 0; i < len(lits); i++ {
			for j := i + 1; j < len(lits); j++ {
				g.Add(lits[i].Not())
				g.Add(lits[j].Not())
				g.Add(0)
			}
		}
	}
	g.Assume(formula)
	return g.Solve() == 1
}

// checkSatisfiable reports the first definition admitting no finite value.
func (r *Registry) checkSatisfiable() error {
	for i, def := range r.defs {
		b := newSatBuilder(r)
		if !b.satisfiable(b.def(i + 1)) {
			return &DefinitionError{
				Def:     def.DefName(),
				Message: "no finite value: every required path refers back to it",
			}
		}
	}
	return nil
}
