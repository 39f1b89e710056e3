// Package kpath provides kinded path parsing, formatting and navigation over
// decoded JSON documents.
//
// Kinded paths name a position in a document:
//   - field or .field - Object field access
//   - [index] - Array index
//   - .* / [*] - Wildcards (only meaningful to List)
//
// # Usage
//
//	// Parse a kinded path
//	kp, err := kpath.Parse("views[0].tracks.top[1].width")
//
//	// Build paths while walking a document
//	p := kpath.Join("", "views")   // "views"
//	p = kpath.JoinIndex(p, 0)      // "views[0]"
//
//	// Navigate decoded JSON (map[string]any / []any)
//	v, err := kpath.Get(doc, "views[0].uid")
//	vs, err := kpath.List(doc, "views[*].uid")
//
// Field names containing '.', '[', quotes or spaces are single-quoted with
// backslash escapes, for example "locksDict.'a.b'".
package kpath
