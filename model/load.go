package model

import (
	"encoding/json"
	"fmt"

	"github.com/signadot/viewconf/format"
	"github.com/signadot/viewconf/schema"
)

// FromValue validates a decoded document against r and returns the typed
// viewconf.  Errors from validation are *schema.ValidationError.
func FromValue(r *schema.Registry, raw any) (*Viewconf, error) {
	norm, err := r.Validate(RootName, raw)
	if err != nil {
		return nil, err
	}
	return decode(norm)
}

func decode(norm any) (*Viewconf, error) {
	d, err := json.Marshal(norm)
	if err != nil {
		return nil, err
	}
	v := &Viewconf{}
	if err := json.Unmarshal(d, v); err != nil {
		return nil, fmt.Errorf("decoding validated viewconf: %w", err)
	}
	return v, nil
}

// Parse validates a JSON document against the default registry.
func Parse(data []byte) (*Viewconf, error) {
	return ParseFormat(data, format.JSONFormat)
}

// ParseFormat validates a JSON or YAML document against the default
// registry.
func ParseFormat(data []byte, f format.Format) (*Viewconf, error) {
	raw, err := format.Decode(data, f)
	if err != nil {
		return nil, err
	}
	return FromValue(Default(), raw)
}

// ToValue returns the decoded JSON form of v.
func (v *Viewconf) ToValue() (any, error) {
	d, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var res any
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Validate checks a programmatically built viewconf against r.
func (v *Viewconf) Validate(r *schema.Registry) error {
	raw, err := v.ToValue()
	if err != nil {
		return err
	}
	_, err = r.Validate(RootName, raw)
	return err
}

// Normalize validates v against r and returns a new viewconf with
// defaults filled in.
func (v *Viewconf) Normalize(r *schema.Registry) (*Viewconf, error) {
	raw, err := v.ToValue()
	if err != nil {
		return nil, err
	}
	return FromValue(r, raw)
}
