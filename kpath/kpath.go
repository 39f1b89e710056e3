package kpath

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// KPath represents a parsed kinded path as a linked list of segments.
//   - "a.b" → Field "a", then Field "b"
//   - "a.*" → Field "a", then FieldAll
//   - "a[0]" → Field "a", then Index 0
//   - "a[*]" → Field "a", then IndexAll
type KPath struct {
	Field    *string // Object field name
	FieldAll bool    // Object field wildcard .*
	Index    *int    // Array index
	IndexAll bool    // Array wildcard [*]
	Next     *KPath  // Next segment in path (nil for leaf)
}

// Field returns a single field segment.
func Field(name string) *KPath {
	return &KPath{Field: &name}
}

// Index returns a single array index segment.
func Index(i int) *KPath {
	return &KPath{Index: &i}
}

// String returns the kinded path string representation of this KPath.
func (p *KPath) String() string {
	if p == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	for x := p; x != nil; x = x.Next {
		switch {
		case x.FieldAll:
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteByte('*')
		case x.Field != nil:
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(quoteField(*x.Field))
		case x.IndexAll:
			buf.WriteString("[*]")
		case x.Index != nil:
			fmt.Fprintf(buf, "[%d]", *x.Index)
		}
	}
	return buf.String()
}

// SegmentString returns the string representation of this single segment.
func (p *KPath) SegmentString() string {
	if p == nil {
		return ""
	}
	q := *p
	q.Next = nil
	return q.String()
}

// Append returns a copy of p with next appended at the end. Neither p nor
// next is modified.
func (p *KPath) Append(next *KPath) *KPath {
	if p == nil {
		return next.clone()
	}
	res := p.clone()
	last := res
	for last.Next != nil {
		last = last.Next
	}
	last.Next = next.clone()
	return res
}

// Parent returns a copy of the path without its last segment.
func (p *KPath) Parent() *KPath {
	if p == nil || p.Next == nil {
		return nil
	}
	res := &KPath{}
	*res = *p
	res.Next = p.Next.Parent()
	return res
}

// HasWildcard reports whether any segment is a wildcard.
func (p *KPath) HasWildcard() bool {
	for x := p; x != nil; x = x.Next {
		if x.FieldAll || x.IndexAll {
			return true
		}
	}
	return false
}

func (p *KPath) clone() *KPath {
	if p == nil {
		return nil
	}
	res := &KPath{}
	*res = *p
	res.Next = p.Next.clone()
	return res
}

// Join appends an object field to a kinded path string.
//
//	Join("", "views")         → "views"
//	Join("views[0]", "uid")   → "views[0].uid"
//	Join("locksDict", "a.b")  → "locksDict.'a.b'"
func Join(prefix, field string) string {
	if prefix == "" {
		return quoteField(field)
	}
	return prefix + "." + quoteField(field)
}

// JoinIndex appends an array index to a kinded path string.
func JoinIndex(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

// Parse parses a kinded path string into a KPath structure.
// The empty string is the root path and parses to nil.
func Parse(kpath string) (*KPath, error) {
	if kpath == "" {
		return nil, nil
	}
	root := &KPath{}
	if err := parseKFrag(kpath, root, true); err != nil {
		return nil, fmt.Errorf("invalid kpath %q: %w", kpath, err)
	}
	return root, nil
}

func parseKFrag(frag string, parent *KPath, top bool) error {
	switch {
	case frag[0] == '.':
		if len(frag) > 1 && frag[1] == '*' {
			parent.FieldAll = true
			return parseKNext(frag[2:], parent)
		}
		field, rest, err := parseKField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		return parseKNext(rest, parent)
	case frag[0] == '[':
		i := strings.IndexByte(frag, ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		is := frag[1:i]
		if is == "*" {
			parent.IndexAll = true
		} else {
			u64, err := strconv.ParseUint(is, 10, 63)
			if err != nil {
				return fmt.Errorf("invalid array index %q: %v", is, err)
			}
			index := int(u64)
			parent.Index = &index
		}
		return parseKNext(frag[i+1:], parent)
	case top && frag[0] == '*':
		parent.FieldAll = true
		return parseKNext(frag[1:], parent)
	case top:
		field, rest, err := parseKField(frag)
		if err != nil {
			return err
		}
		parent.Field = &field
		return parseKNext(rest, parent)
	default:
		return fmt.Errorf("expected '.' or '[', got %q", frag[0])
	}
}

func parseKNext(rest string, parent *KPath) error {
	if rest == "" {
		return nil
	}
	next := &KPath{}
	if err := parseKFrag(rest, next, false); err != nil {
		return err
	}
	parent.Next = next
	return nil
}

// parseKField parses an object field name from a fragment, stopping at '.'
// or '['.  Single or double quoted names may contain those characters.
func parseKField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	q := frag[0]
	if q != '\'' && q != '"' {
		i := strings.IndexAny(frag, ".[")
		if i == 0 {
			return "", "", fmt.Errorf("empty field name")
		}
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	var b strings.Builder
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch c {
		case '\\':
			if i+1 == len(frag) {
				return "", "", fmt.Errorf("unterminated escape in quoted field")
			}
			i++
			b.WriteByte(frag[i])
		case q:
			return b.String(), frag[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("unterminated quoted field")
}

func needsQuote(field string) bool {
	if field == "" || field == "*" {
		return true
	}
	return strings.ContainsAny(field, ".[]'\"\\ \t\n")
}

func quoteField(field string) string {
	if !needsQuote(field) {
		return field
	}
	var b strings.Builder
	b.Grow(len(field) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c == '\'' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('\'')
	return b.String()
}
