// Package jsonschema exports a schema.Registry as a draft-07 JSON Schema
// document.
//
// Records become object schemas with ordered "properties" and a
// "required" list.  Closed records set "additionalProperties" to false;
// records allowing typed extra keys carry the value schema there; records
// ignoring unknown keys leave it out.  Unions become "anyOf" over their
// variant records, whose tag fields are "const" or "enum" constrained.
// Nullable types are "anyOf" with {"type": "null"}.
//
// Output is a pure function of the registry description: exporting twice
// gives byte-identical documents.
package jsonschema
