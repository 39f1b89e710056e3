// Package format names the document encodings viewconf reads and writes and
// converts between them.
//
// # Usage
//
//	f, err := format.ParseFormat("yaml")
//	doc, err := format.Decode(data, f)      // map[string]any, []any, scalars
//	out, err := format.Marshal(doc, format.JSONFormat, "  ")
//
// YAML support is provided by github.com/goccy/go-yaml.  YAML output is
// produced from the JSON encoding so key order follows the JSON output.
package format
