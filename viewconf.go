// Package viewconf validates HiGlass view configurations and exports their
// JSON Schema.
//
// The functions here work on the process default registry built by
// package model.  Programs needing a custom registry use packages schema,
// model and jsonschema directly.
package viewconf

import (
	"github.com/signadot/viewconf/format"
	"github.com/signadot/viewconf/jsonschema"
	"github.com/signadot/viewconf/model"
)

// SchemaID is the "$id" of the exported schema document.
const SchemaID = "https://higlass.io/#viewconf"

// Validate checks a decoded document (map[string]any and friends) and
// returns the normalized, typed viewconf.  Validation failures are
// *schema.ValidationError.
func Validate(raw any) (*model.Viewconf, error) {
	return model.FromValue(model.Default(), raw)
}

// Load decodes and validates a JSON or YAML document.
func Load(data []byte, f format.Format) (*model.Viewconf, error) {
	return model.ParseFormat(data, f)
}

// SchemaDocument exports the JSON Schema of the default registry.
func SchemaDocument() (*jsonschema.Document, error) {
	return jsonschema.Generate(model.Default(), model.RootName, jsonschema.WithID(SchemaID))
}

// SchemaJSON returns the exported schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	doc, err := SchemaDocument()
	if err != nil {
		return nil, err
	}
	return doc.Marshal("  ")
}
