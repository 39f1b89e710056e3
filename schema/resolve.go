package schema

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"
)

// Resolve binds every reference to its definition and checks the
// registry for consistency:
//
//   - every Ref and every union variant names a defined definition, and
//     variants name records;
//   - string patterns and record rules compile;
//   - defaults conform to their field types;
//   - every definition admits a finite value.
//
// Dangling names are reported together as *UnresolvedReferenceError values
// joined with errors.Join; the registry stays unresolved so the missing
// definitions can still be added.  Resolve on a resolved registry does
// nothing.
func (r *Registry) Resolve() error {
	if r.resolved {
		return nil
	}
	var unresolved []error
	bind := func(from string, t *Type) {
		t.walk(func(t *Type) error {
			if t.Kind != KindRef {
				return nil
			}
			i, ok := r.index[t.Ref]
			if !ok {
				unresolved = append(unresolved, &UnresolvedReferenceError{From: from, Name: t.Ref})
				return nil
			}
			t.target = i + 1
			return nil
		})
	}
	for _, def := range r.defs {
		switch d := def.(type) {
		case *Record:
			for _, f := range d.Fields {
				bind(d.Name+"."+f.Name, f.Type)
			}
			if d.Additional != nil {
				bind(d.Name+".*", d.Additional)
			}
		case *Union:
			for _, v := range d.Variants {
				i, ok := r.index[v.Record]
				if !ok {
					unresolved = append(unresolved, &UnresolvedReferenceError{From: d.Name, Name: v.Record})
					continue
				}
				if _, isRec := r.defs[i].(*Record); !isRec {
					return &DefinitionError{Def: d.Name, Message: fmt.Sprintf("variant %s is not a record", v.Record)}
				}
				v.target = i + 1
			}
		}
	}
	if len(unresolved) != 0 {
		r.logger.Debug("unresolved references", "count", len(unresolved))
		return errors.Join(unresolved...)
	}
	for _, def := range r.defs {
		rec, ok := def.(*Record)
		if !ok {
			continue
		}
		if err := r.compile(rec); err != nil {
			return err
		}
	}
	if err := r.checkDefaults(); err != nil {
		return err
	}
	if err := r.checkSatisfiable(); err != nil {
		return err
	}
	r.resolved = true
	r.logger.Debug("resolved", "definitions", len(r.defs), "version", r.version)
	r.logf("resolved %d definitions: %v\n", len(r.defs), r.Names())
	return nil
}

// compile compiles patterns and rules of rec and checks unique-by keys.
func (r *Registry) compile(rec *Record) error {
	types := make([]*Type, 0, len(rec.Fields)+1)
	for _, f := range rec.Fields {
		types = append(types, f.Type)
	}
	if rec.Additional != nil {
		types = append(types, rec.Additional)
	}
	for _, ft := range types {
		err := ft.walk(func(t *Type) error {
			if t.Pattern != "" {
				re, err := regexp.Compile(t.Pattern)
				if err != nil {
					return &DefinitionError{Def: rec.Name, Message: "bad pattern", Err: err}
				}
				t.re = re
			}
			if t.UniqueBy != "" {
				if t.Kind != KindArray || t.Elem.Kind != KindRef {
					return &DefinitionError{Def: rec.Name, Message: "unique-by requires an array of records"}
				}
				elem := r.record(t.Elem.target)
				if elem == nil || elem.Field(t.UniqueBy) == nil {
					return &DefinitionError{Def: rec.Name, Message: fmt.Sprintf("unique-by key %q is not a field of %s", t.UniqueBy, t.Elem.Ref)}
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	for _, rl := range rec.Rules {
		if rl.Field != "" && rec.Field(rl.Field) == nil {
			return &DefinitionError{Def: rec.Name, Message: fmt.Sprintf("rule reports at undeclared field %q", rl.Field)}
		}
		prog, err := expr.Compile(rl.Expr, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return &DefinitionError{Def: rec.Name, Message: fmt.Sprintf("rule %q", rl.Expr), Err: err}
		}
		rl.prog = prog
	}
	return nil
}

// checkDefaults validates each default against its field type and stores
// the normalized form.
func (r *Registry) checkDefaults() error {
	for _, def := range r.defs {
		rec, ok := def.(*Record)
		if !ok {
			continue
		}
		for _, f := range rec.Fields {
			if f.Default == nil {
				continue
			}
			v := &validator{r: r, errs: &ValidationError{Def: rec.Name}}
			norm := v.value(rec.Name+"."+f.Name, f.Type, f.Default)
			if len(v.errs.Errors) != 0 {
				return &DefinitionError{
					Def:     rec.Name,
					Message: fmt.Sprintf("default of field %q", f.Name),
					Err:     v.errs,
				}
			}
			f.Default = norm
		}
	}
	return nil
}
