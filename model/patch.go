package model

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/viewconf/schema"
)

// Diff returns the JSON merge patch (RFC 7386) turning a into b.
func Diff(a, b *Viewconf) ([]byte, error) {
	ad, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	bd, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return jsonpatch.CreateMergePatch(ad, bd)
}

// Equal reports whether a and b serialize to equal JSON documents.
func Equal(a, b *Viewconf) bool {
	ad, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bd, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return jsonpatch.Equal(ad, bd)
}

// MergePatch applies a JSON merge patch to v and validates the result
// against r.  v is not modified.
func MergePatch(r *schema.Registry, v *Viewconf, patch []byte) (*Viewconf, error) {
	return apply(r, v, func(doc []byte) ([]byte, error) {
		return jsonpatch.MergePatch(doc, patch)
	})
}

// JSONPatch applies a JSON patch (RFC 6902) to v and validates the result
// against r.  v is not modified.
func JSONPatch(r *schema.Registry, v *Viewconf, patch []byte) (*Viewconf, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, err
	}
	return apply(r, v, ops.Apply)
}

func apply(r *schema.Registry, v *Viewconf, f func([]byte) ([]byte, error)) (*Viewconf, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out, err := f(doc)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	var raw any
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, err
	}
	return FromValue(r, raw)
}
