package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"j":    JSONFormat,
		"json": JSONFormat,
		"y":    YAMLFormat,
		"yml":  YAMLFormat,
		"yaml": YAMLFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FromPath guesses a format from a file name extension, defaulting to JSON.
func FromPath(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAMLFormat
	default:
		return JSONFormat
	}
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool { return f == JSONFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	if f == YAMLFormat {
		return ".yaml"
	}
	return ".json"
}

// Decode parses data in the given format into plain Go values: objects as
// map[string]any, arrays as []any, and JSON-compatible scalars.
func Decode(data []byte, f Format) (any, error) {
	var v any
	switch f {
	case JSONFormat:
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		return v, nil
	case YAMLFormat:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		return plain(v), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, f)
	}
}

// Marshal encodes v in the given format.  For JSON a non-empty indent
// produces indented output; YAML output is always block style.
func Marshal(v any, f Format, indent string) ([]byte, error) {
	var d []byte
	var err error
	if indent != "" && f == JSONFormat {
		d, err = json.MarshalIndent(v, "", indent)
	} else {
		d, err = json.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	switch f {
	case JSONFormat:
		return d, nil
	case YAMLFormat:
		return ToYAML(d)
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, f)
	}
}

// ToYAML converts a JSON document to YAML, preserving key order.
func ToYAML(jsonData []byte) ([]byte, error) {
	y, err := yaml.JSONToYAML(jsonData)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return y, nil
}

// ToJSON converts a YAML (or JSON) document to compact JSON.
func ToJSON(data []byte, f Format) ([]byte, error) {
	if f == JSONFormat {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		return buf.Bytes(), nil
	}
	v, err := Decode(data, f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// plain rewrites YAML decoder output so that every mapping is a
// map[string]any and every sequence is a []any.
func plain(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = plain(e)
		}
		return x
	case map[any]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			res[fmt.Sprint(k)] = plain(e)
		}
		return res
	case []any:
		for i, e := range x {
			x[i] = plain(e)
		}
		return x
	default:
		return v
	}
}
