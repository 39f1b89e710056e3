package kpath

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned by Get when a path does not exist in a document.
var ErrNotFound = errors.New("path not found")

// Get navigates a decoded JSON document (map[string]any, []any and scalars)
// along a kinded path. Wildcards are rejected; use List for those.
func Get(doc any, kp string) (any, error) {
	p, err := Parse(kp)
	if err != nil {
		return nil, err
	}
	if p.HasWildcard() {
		return nil, fmt.Errorf("wildcard in get path %q", kp)
	}
	res := doc
	for x := p; x != nil; x = x.Next {
		switch {
		case x.Index != nil:
			arr, ok := res.([]any)
			if !ok {
				return nil, fmt.Errorf("at %q: expected array, got %s", kp, kindOf(res))
			}
			if *x.Index >= len(arr) {
				return nil, fmt.Errorf("%w: index out of bounds %d (len %d)", ErrNotFound, *x.Index, len(arr))
			}
			res = arr[*x.Index]
		case x.Field != nil:
			obj, ok := res.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("at %q: expected object, got %s", kp, kindOf(res))
			}
			v, ok := obj[*x.Field]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, kp)
			}
			res = v
		}
	}
	return res, nil
}

// List collects all values matching a kinded path, expanding wildcards.
// Object wildcards visit fields in sorted key order. Paths that do not exist
// contribute nothing.
func List(doc any, kp string) ([]any, error) {
	p, err := Parse(kp)
	if err != nil {
		return nil, err
	}
	return list(nil, doc, p), nil
}

func list(dst []any, v any, p *KPath) []any {
	if p == nil {
		return append(dst, v)
	}
	switch {
	case p.IndexAll:
		arr, _ := v.([]any)
		for _, e := range arr {
			dst = list(dst, e, p.Next)
		}
	case p.Index != nil:
		arr, _ := v.([]any)
		if *p.Index < len(arr) {
			dst = list(dst, arr[*p.Index], p.Next)
		}
	case p.FieldAll:
		obj, _ := v.(map[string]any)
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dst = list(dst, obj[k], p.Next)
		}
	case p.Field != nil:
		obj, _ := v.(map[string]any)
		if e, ok := obj[*p.Field]; ok {
			dst = list(dst, e, p.Next)
		}
	}
	return dst
}

func kindOf(v any) string {
	switch v.(type) {
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
	default:
		return "number"
	}
}
