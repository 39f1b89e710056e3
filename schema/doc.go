// Package schema provides the model registry: named record and union
// definitions, their field constraints and defaults, forward-reference
// resolution, validation of decoded documents and a structural description
// consumed by exporters.
//
// # Definitions
//
// A registry holds two kinds of definitions:
//   - Record: an object with ordered fields, an unknown-field policy and
//     optional expr-lang rules over its fields.
//   - Union: a discriminated union selecting a Record by a tag field.
//
// Field types are Type expressions.  Ref names another definition and may be
// written before that definition exists.
//
//	r := schema.NewRegistry(schema.WithVersion("1"))
//	err := r.Define(
//	    &schema.Record{
//	        Name: "Tree",
//	        Fields: []*schema.Field{
//	            {Name: "name", Type: schema.String(), Required: true},
//	            {Name: "children", Type: schema.ArrayOf(schema.Ref("Tree"))},
//	        },
//	        Unknown: schema.UnknownForbid,
//	    })
//
// # Resolution
//
// Resolve patches every Ref into a handle on its definition, checks union
// variants, defaults and rules, and rejects definitions that can never be
// satisfied.  Resolve is idempotent; after it succeeds the registry is
// read-only and safe for concurrent use.
//
//	if err := r.Resolve(); err != nil {
//	    // *UnresolvedReferenceError, *DefinitionError
//	}
//
// # Validation
//
//	v, err := r.Validate("Tree", doc)
//
// doc is decoded JSON (map[string]any, []any, scalars).  On success v is a
// normalized copy: defaults filled in, ignored keys dropped, numbers as
// float64 or int64.  On failure err is a *ValidationError listing every
// offending path; no partial value is returned.
package schema
