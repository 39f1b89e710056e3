package jsonschema

import (
	"bytes"
	"encoding/json"
)

// Schema is a JSON Schema (draft-07) object.  Fields marshal in
// declaration order and properties in insertion order, so equal schemas
// have identical encodings.
type Schema struct {
	Schema      string `json:"$schema,omitempty"`
	ID          string `json:"$id,omitempty"`
	Comment     string `json:"$comment,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type  string    `json:"type,omitempty"`
	Const any       `json:"const,omitempty"`
	Enum  []any     `json:"enum,omitempty"`
	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`

	Properties Properties `json:"properties,omitempty"`
	Required   []string   `json:"required,omitempty"`
	// AdditionalProperties is false or a *Schema.
	AdditionalProperties any `json:"additionalProperties,omitempty"`

	// Items is a *Schema, or a []*Schema for positional items.
	Items    any      `json:"items,omitempty"`
	MinItems *int     `json:"minItems,omitempty"`
	MaxItems *int     `json:"maxItems,omitempty"`
	Minimum  *float64 `json:"minimum,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`

	Default  any   `json:"default,omitempty"`
	Examples []any `json:"examples,omitempty"`

	Definitions Properties `json:"definitions,omitempty"`
}

// Property is a named schema within Properties.
type Property struct {
	Name   string
	Schema *Schema
}

// Properties is a JSON object of schemas that keeps insertion order.
type Properties []Property

// Get returns the schema named name, or nil.
func (ps Properties) Get(name string) *Schema {
	for _, p := range ps {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// Names returns the property names in order.
func (ps Properties) Names() []string {
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.Name
	}
	return res
}

func (ps Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(p.Schema)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ps *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var res Properties
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		s := &Schema{}
		if err := dec.Decode(s); err != nil {
			return err
		}
		res = append(res, Property{Name: name, Schema: s})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ps = res
	return nil
}
