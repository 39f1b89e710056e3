package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/signadot/viewconf/debug"
	"github.com/signadot/viewconf/schema"
)

const Draft07 = "http://json-schema.org/draft-07/schema#"

var ErrNoRoot = errors.New("root is not a record")

type options struct {
	id    string
	draft string
	title string
}

type Option func(*options)

// WithID sets the "$id" of the exported document.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithDraft sets the "$schema" URI; the default is Draft07.
func WithDraft(uri string) Option {
	return func(o *options) { o.draft = uri }
}

// WithTitle overrides the root record's title.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// Document is an exported JSON Schema document.
type Document struct {
	Root *Schema
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Root)
}

// Marshal encodes the document, indented by indent when it is not empty.
func (d *Document) Marshal(indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(d.Root)
	}
	return json.MarshalIndent(d.Root, "", indent)
}

// Generate exports the definitions of r rooted at the record root.
func Generate(r *schema.Registry, root string, opts ...Option) (*Document, error) {
	return Export(r.Describe(), root, opts...)
}

// Export converts a registry description into a JSON Schema document.
//
// The root record is inlined at the top level.  Every other definition
// reachable from it is placed under "definitions", in definition order, and
// referred to with "$ref".  Record fields keep their declaration order.
func Export(d *schema.Description, root string, opts ...Option) (*Document, error) {
	if !d.Resolved {
		return nil, schema.ErrNotResolved
	}
	o := &options{draft: Draft07}
	for _, opt := range opts {
		opt(o)
	}
	rec := d.Record(root)
	if rec == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoRoot, root)
	}
	x := &exporter{d: d, root: root}
	top := x.record(rec)
	top.Schema = o.draft
	top.ID = o.id
	if d.Version != "" {
		top.Comment = "schema version " + d.Version
	}
	top.Title = rec.Title
	if o.title != "" {
		top.Title = o.title
	}
	for _, def := range d.Defs {
		name := def.DefName()
		if name == root || !x.reachable()[name] {
			continue
		}
		top.Definitions = append(top.Definitions, Property{Name: name, Schema: x.def(def)})
	}
	doc := &Document{Root: top}
	if debug.Export() {
		debug.Logf("exported %s: %d definitions\n", root, len(top.Definitions))
	}
	return doc, nil
}

type exporter struct {
	d     *schema.Description
	root  string
	reach map[string]bool
}

// reachable returns the names of definitions referred to, directly or not,
// by the root.
func (x *exporter) reachable() map[string]bool {
	if x.reach != nil {
		return x.reach
	}
	x.reach = map[string]bool{}
	var visit func(name string)
	visitType := func(t *schema.Type) {
		walk(t, func(t *schema.Type) {
			if t.Kind == schema.KindRef {
				visit(t.Ref)
			}
		})
	}
	visit = func(name string) {
		if x.reach[name] {
			return
		}
		x.reach[name] = true
		def, _ := x.d.Lookup(name)
		switch d := def.(type) {
		case *schema.Record:
			for _, f := range d.Fields {
				visitType(f.Type)
			}
			if d.Additional != nil {
				visitType(d.Additional)
			}
		case *schema.Union:
			for _, v := range d.Variants {
				visit(v.Record)
			}
		}
	}
	visit(x.root)
	return x.reach
}

func walk(t *schema.Type, f func(*schema.Type)) {
	if t == nil {
		return
	}
	f(t)
	walk(t.Elem, f)
	for _, it := range t.Items {
		walk(it, f)
	}
	for _, a := range t.Alts {
		walk(a, f)
	}
}

func (x *exporter) def(def schema.Def) *Schema {
	switch d := def.(type) {
	case *schema.Record:
		return x.record(d)
	case *schema.Union:
		s := &Schema{Description: d.Description}
		for _, v := range d.Variants {
			s.AnyOf = append(s.AnyOf, x.ref(v.Record))
		}
		return s
	}
	return &Schema{}
}

func (x *exporter) ref(name string) *Schema {
	if name == x.root {
		return &Schema{Ref: "#"}
	}
	return &Schema{Ref: "#/definitions/" + name}
}

func (x *exporter) record(rec *schema.Record) *Schema {
	s := &Schema{
		Description: rec.Description,
		Type:        "object",
	}
	for _, f := range rec.Fields {
		s.Properties = append(s.Properties, Property{Name: f.Name, Schema: x.field(f)})
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	switch rec.Unknown {
	case schema.UnknownForbid:
		s.AdditionalProperties = false
	case schema.UnknownAllow:
		if rec.Additional != nil {
			s.AdditionalProperties = x.typ(rec.Additional)
		}
	}
	return s
}

func (x *exporter) field(f *schema.Field) *Schema {
	s := x.typ(f.Type)
	if s.Ref != "" && (f.Description != "" || f.Default != nil || f.Examples != nil) {
		// draft-07 ignores keywords next to $ref.
		s = &Schema{AllOf: []*Schema{s}}
	}
	s.Description = f.Description
	s.Default = f.Default
	s.Examples = f.Examples
	return s
}

func (x *exporter) typ(t *schema.Type) *Schema {
	s := x.bare(t)
	if t.Nullable {
		return &Schema{AnyOf: []*Schema{s, {Type: "null"}}}
	}
	return s
}

func (x *exporter) bare(t *schema.Type) *Schema {
	s := &Schema{}
	switch t.Kind {
	case schema.KindAny:
	case schema.KindString:
		s.Type = "string"
		s.Pattern = t.Pattern
	case schema.KindInteger:
		s.Type = "integer"
	case schema.KindNumber:
		s.Type = "number"
	case schema.KindBoolean:
		s.Type = "boolean"
	case schema.KindArray:
		s.Type = "array"
		s.Items = x.typ(t.Elem)
		s.MinItems = t.MinItems
		s.MaxItems = t.MaxItems
	case schema.KindTuple:
		s.Type = "array"
		items := make([]*Schema, len(t.Items))
		for i, it := range t.Items {
			items[i] = x.typ(it)
		}
		s.Items = items
		n := len(items)
		s.MinItems = &n
		s.MaxItems = &n
	case schema.KindMap:
		s.Type = "object"
		if t.Elem != nil && t.Elem.Kind != schema.KindAny {
			s.AdditionalProperties = x.typ(t.Elem)
		}
	case schema.KindRef:
		return x.ref(t.Ref)
	case schema.KindOneOf:
		for _, a := range t.Alts {
			s.AnyOf = append(s.AnyOf, x.typ(a))
		}
	}
	s.Minimum = t.Minimum
	switch len(t.Enum) {
	case 0:
	case 1:
		s.Const = t.Enum[0]
	default:
		s.Enum = t.Enum
	}
	return s
}
