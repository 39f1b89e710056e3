package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/signadot/viewconf/debug"
	"github.com/signadot/viewconf/kpath"
)

// Validate checks raw against the definition named root and returns its
// normalized form: defaults filled in, ignored keys dropped, integers as
// int64 and other numbers as float64.
//
// raw is decoded JSON: map[string]any, []any, string, bool, nil and
// numbers, which may be float64, json.Number or any Go integer type.
//
// On failure Validate returns a nil value and a *ValidationError holding
// every field error found, each located by a kinded path such as
// "views[0].tracks.top[1].width".
func (r *Registry) Validate(root string, raw any) (any, error) {
	if !r.resolved {
		return nil, ErrNotResolved
	}
	i, ok := r.index[root]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchDefinition, root)
	}
	v := &validator{r: r, errs: &ValidationError{Def: root}}
	out := v.def("", i+1, raw)
	if len(v.errs.Errors) != 0 {
		if debug.Validate() {
			debug.Logf("validate %s: %d errors in %v\n", root, len(v.errs.Errors), raw)
		}
		return nil, v.errs
	}
	if debug.Validate() {
		debug.Logf("validate %s: ok %v\n", root, out)
	}
	return out, nil
}

type validator struct {
	r    *Registry
	errs *ValidationError
}

func (v *validator) fail(err FieldError) {
	v.errs.add(err)
}

func (v *validator) ok() bool {
	return len(v.errs.Errors) == 0
}

func (v *validator) def(path string, target int, x any) any {
	switch d := v.r.defs[target-1].(type) {
	case *Record:
		return v.record(path, d, x)
	case *Union:
		return v.union(path, d, x)
	}
	return nil
}

func (v *validator) record(path string, rec *Record, x any) any {
	m, ok := x.(map[string]any)
	if !ok {
		v.fail(&TypeMismatchError{Path: path, Expected: rec.Name, Actual: kindOf(x)})
		return nil
	}
	before := len(v.errs.Errors)
	out := make(map[string]any, len(rec.Fields))
	for _, f := range rec.Fields {
		fpath := kpath.Join(path, f.Name)
		fv, present := m[f.Name]
		if present && fv == nil && !f.Required && !f.Type.Nullable {
			present = false
		}
		if !present {
			switch {
			case f.Default != nil:
				out[f.Name] = deepCopy(f.Default)
			case f.Required:
				v.fail(&MissingFieldError{Path: fpath})
			}
			continue
		}
		out[f.Name] = v.value(fpath, f.Type, fv)
	}
	extra := make([]string, 0, len(m))
	for k := range m {
		if rec.Field(k) == nil {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		switch rec.Unknown {
		case UnknownForbid:
			v.fail(&UnknownFieldError{Path: kpath.Join(path, k)})
		case UnknownAllow:
			if rec.Additional != nil {
				out[k] = v.value(kpath.Join(path, k), rec.Additional, m[k])
			} else {
				out[k] = v.value(kpath.Join(path, k), Any(), m[k])
			}
		}
	}
	if len(v.errs.Errors) != before {
		return nil
	}
	for _, rl := range rec.Rules {
		rpath := path
		if rl.Field != "" {
			rpath = kpath.Join(path, rl.Field)
		}
		res, err := expr.Run(rl.prog, out)
		if err != nil {
			v.fail(&ConstraintViolationError{
				Path:       rpath,
				Constraint: "rule",
				Message:    fmt.Sprintf("%s: %v", rl.Message, err),
			})
			continue
		}
		if pass, _ := res.(bool); !pass {
			v.fail(&ConstraintViolationError{
				Path:       rpath,
				Constraint: "rule",
				Message:    rl.Message,
				Value:      out[rl.Field],
			})
		}
	}
	return out
}

func (v *validator) union(path string, u *Union, x any) any {
	m, ok := x.(map[string]any)
	if !ok {
		v.fail(&TypeMismatchError{Path: path, Expected: u.Name, Actual: kindOf(x)})
		return nil
	}
	tpath := kpath.Join(path, u.Tag)
	tv, present := m[u.Tag]
	if !present || tv == nil {
		v.fail(&MissingFieldError{Path: tpath})
		return nil
	}
	tag, ok := tv.(string)
	if !ok {
		v.fail(&TypeMismatchError{Path: tpath, Expected: "string", Actual: kindOf(tv)})
		return nil
	}
	variant := u.Variant(tag)
	if variant == nil {
		v.fail(&InvalidDiscriminantError{Path: tpath, Value: tag, Allowed: u.Values()})
		return nil
	}
	return v.def(path, variant.target, x)
}

func (v *validator) value(path string, t *Type, x any) any {
	if x == nil {
		if t.Nullable || t.Kind == KindAny {
			return nil
		}
		if t.Kind == KindOneOf {
			return v.oneOf(path, t, x)
		}
		v.fail(&TypeMismatchError{Path: path, Expected: t.String(), Actual: "null"})
		return nil
	}
	var out any
	switch t.Kind {
	case KindAny:
		return normalize(x)
	case KindString:
		s, ok := x.(string)
		if !ok {
			break
		}
		if t.re != nil && !t.re.MatchString(s) {
			v.fail(&ConstraintViolationError{
				Path:       path,
				Constraint: "pattern",
				Message:    fmt.Sprintf("%q does not match %s", s, t.Pattern),
				Value:      s,
			})
			return nil
		}
		out = s
	case KindInteger:
		n, ok := toInt(x)
		if !ok {
			break
		}
		if t.Minimum != nil && float64(n) < *t.Minimum {
			v.failMinimum(path, t, n)
			return nil
		}
		out = n
	case KindNumber:
		f, ok := toFloat(x)
		if !ok {
			break
		}
		if t.Minimum != nil && f < *t.Minimum {
			v.failMinimum(path, t, f)
			return nil
		}
		out = f
	case KindBoolean:
		b, ok := x.(bool)
		if !ok {
			break
		}
		out = b
	case KindArray:
		a, ok := x.([]any)
		if !ok {
			break
		}
		return v.array(path, t, a)
	case KindTuple:
		a, ok := x.([]any)
		if !ok {
			break
		}
		if len(a) != len(t.Items) {
			v.fail(&ConstraintViolationError{
				Path:       path,
				Constraint: "length",
				Message:    fmt.Sprintf("expected %d items, got %d", len(t.Items), len(a)),
				Value:      normalize(x),
			})
			return nil
		}
		res := make([]any, len(a))
		for i, e := range a {
			res[i] = v.value(kpath.JoinIndex(path, i), t.Items[i], e)
		}
		return res
	case KindMap:
		m, ok := x.(map[string]any)
		if !ok {
			break
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		res := make(map[string]any, len(m))
		for _, k := range keys {
			res[k] = v.value(kpath.Join(path, k), t.Elem, m[k])
		}
		return res
	case KindRef:
		return v.def(path, t.target, x)
	case KindOneOf:
		return v.oneOf(path, t, x)
	}
	if out == nil {
		v.fail(&TypeMismatchError{Path: path, Expected: t.String(), Actual: kindOf(x)})
		return nil
	}
	if t.Enum != nil && !slices.ContainsFunc(t.Enum, func(e any) bool { return sameValue(e, out) }) {
		v.fail(&ConstraintViolationError{
			Path:       path,
			Constraint: "enum",
			Message:    fmt.Sprintf("%v is not one of %v", out, t.Enum),
			Value:      out,
		})
		return nil
	}
	return out
}

func (v *validator) failMinimum(path string, t *Type, n any) {
	v.fail(&ConstraintViolationError{
		Path:       path,
		Constraint: "minimum",
		Message:    fmt.Sprintf("%v is less than %v", n, *t.Minimum),
		Value:      n,
	})
}

func (v *validator) array(path string, t *Type, a []any) any {
	if t.MinItems != nil && len(a) < *t.MinItems {
		v.fail(&ConstraintViolationError{
			Path:       path,
			Constraint: "minItems",
			Message:    fmt.Sprintf("expected at least %d items, got %d", *t.MinItems, len(a)),
			Value:      len(a),
		})
		return nil
	}
	if t.MaxItems != nil && len(a) > *t.MaxItems {
		v.fail(&ConstraintViolationError{
			Path:       path,
			Constraint: "maxItems",
			Message:    fmt.Sprintf("expected at most %d items, got %d", *t.MaxItems, len(a)),
			Value:      len(a),
		})
		return nil
	}
	res := make([]any, len(a))
	for i, e := range a {
		res[i] = v.value(kpath.JoinIndex(path, i), t.Elem, e)
	}
	if t.UniqueBy == "" {
		return res
	}
	seen := map[any]int{}
	for i, e := range res {
		m, _ := e.(map[string]any)
		key := m[t.UniqueBy]
		switch key.(type) {
		case nil, map[string]any, []any:
			continue
		}
		if first, dup := seen[key]; dup {
			v.fail(&ConstraintViolationError{
				Path:       kpath.Join(kpath.JoinIndex(path, i), t.UniqueBy),
				Constraint: "unique",
				Message:    fmt.Sprintf("%v duplicates %s", key, kpath.JoinIndex(path, first)),
				Value:      key,
			})
			continue
		}
		seen[key] = i
	}
	return res
}

// oneOf returns the value of the first alternative accepting x.  When none
// does, the errors of the only alternative of the right shape are
// reported; if there is no such alternative, a type mismatch is.
func (v *validator) oneOf(path string, t *Type, x any) any {
	var shaped []*ValidationError
	for _, alt := range t.Alts {
		sub := &validator{r: v.r, errs: &ValidationError{Def: v.errs.Def}}
		out := sub.value(path, alt, x)
		if sub.ok() {
			return out
		}
		if v.r.shapeOf(alt, x) {
			shaped = append(shaped, sub.errs)
		}
	}
	if len(shaped) == 1 {
		for _, err := range shaped[0].Errors {
			v.fail(err)
		}
		return nil
	}
	v.fail(&TypeMismatchError{Path: path, Expected: t.String(), Actual: kindOf(x)})
	return nil
}

// shapeOf reports whether x has the JSON kind t expects, ignoring
// everything below the top level.
func (r *Registry) shapeOf(t *Type, x any) bool {
	if x == nil {
		return t.Nullable || t.Kind == KindAny
	}
	switch t.Kind {
	case KindAny:
		return true
	case KindString:
		_, ok := x.(string)
		return ok
	case KindInteger, KindNumber:
		_, ok := toFloat(x)
		return ok
	case KindBoolean:
		_, ok := x.(bool)
		return ok
	case KindArray, KindTuple:
		_, ok := x.([]any)
		return ok
	case KindMap, KindRef:
		_, ok := x.(map[string]any)
		return ok
	case KindOneOf:
		return slices.ContainsFunc(t.Alts, func(a *Type) bool { return r.shapeOf(a, x) })
	}
	return false
}

func kindOf(x any) string {
	switch x.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := toFloat(x); ok {
		return "number"
	}
	return fmt.Sprintf("%T", x)
}

func toFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toInt(x any) (int64, bool) {
	switch n := x.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	f, ok := toFloat(x)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

// normalize copies a value of unconstrained type, converting numbers to
// float64.
func normalize(x any) any {
	switch y := x.(type) {
	case map[string]any:
		res := make(map[string]any, len(y))
		for k, e := range y {
			res[k] = normalize(e)
		}
		return res
	case []any:
		res := make([]any, len(y))
		for i, e := range y {
			res[i] = normalize(e)
		}
		return res
	case nil, string, bool:
		return y
	}
	if f, ok := toFloat(x); ok {
		return f
	}
	return x
}

func sameValue(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	return a == b
}
