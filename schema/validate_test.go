package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad test input %s: %v", s, err)
	}
	return v
}

func TestValidateNormalizes(t *testing.T) {
	r := testRegistry(t)
	in := decode(t, `{
		"name": "a",
		"size": 3,
		"shapes": [
			{"kind": "circle", "id": "c", "r": 2, "extra": 1},
			{"kind": "group", "members": [{"kind": "disc"}]}
		],
		"tags": {"b": "x", "a": "y"},
		"label": {"text": "hi", "n": 4},
		"mode": null
	}`)
	want := map[string]any{
		"name":    "a",
		"size":    int64(3),
		"enabled": true,
		"shapes": []any{
			map[string]any{"kind": "circle", "id": "c", "r": 2.0},
			map[string]any{
				"kind":    "group",
				"members": []any{map[string]any{"kind": "disc"}},
			},
		},
		"bounds": []any{1.0, nil},
		"tags":   map[string]any{"a": "y", "b": "x"},
		"label":  map[string]any{"text": "hi", "n": int64(4)},
	}
	got, err := r.Validate("Doc", in)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}

	// The input is not modified.
	shape := in.(map[string]any)["shapes"].([]any)[0].(map[string]any)
	if _, ok := shape["extra"]; !ok {
		t.Error("Validate() modified its input")
	}

	// Validating the normalized form again is the identity.
	again, err := r.Validate("Doc", got)
	if err != nil {
		t.Fatalf("revalidate: %v", err)
	}
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("revalidate mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateGoValues(t *testing.T) {
	r := testRegistry(t)
	got, err := r.Validate("Doc", map[string]any{
		"name":   "a",
		"size":   uint8(7),
		"bounds": []any{int32(2), json.Number("3.5")},
		"label":  "plain",
	})
	if err != nil {
		t.Fatal(err)
	}
	m := got.(map[string]any)
	if diff := cmp.Diff(int64(7), m["size"]); diff != "" {
		t.Errorf("size (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{2.0, 3.5}, m["bounds"]); diff != "" {
		t.Errorf("bounds (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("plain", m["label"]); diff != "" {
		t.Errorf("label (-want +got):\n%s", diff)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantPaths []string
		wantKind  error
	}{
		{
			name:      "missing required",
			in:        `{}`,
			wantPaths: []string{"name"},
			wantKind:  ErrMissingField,
		},
		{
			name:      "null required",
			in:        `{"name": null}`,
			wantPaths: []string{"name"},
			wantKind:  ErrTypeMismatch,
		},
		{
			name:      "not an object",
			in:        `[1]`,
			wantPaths: []string{""},
			wantKind:  ErrTypeMismatch,
		},
		{
			name:      "below minimum",
			in:        `{"name": "a", "size": -1}`,
			wantPaths: []string{"size"},
			wantKind:  ErrConstraintViolation,
		},
		{
			name:      "fractional integer",
			in:        `{"name": "a", "size": 1.5}`,
			wantPaths: []string{"size"},
			wantKind:  ErrTypeMismatch,
		},
		{
			name:      "unknown field in closed record",
			in:        `{"name": "a", "zzz": 1, "aaa": 2}`,
			wantPaths: []string{"aaa", "zzz"},
			wantKind:  ErrUnknownField,
		},
		{
			name:      "unknown discriminant",
			in:        `{"name": "a", "shapes": [{"kind": "square"}]}`,
			wantPaths: []string{"shapes[0].kind"},
			wantKind:  ErrInvalidDiscriminant,
		},
		{
			name:      "missing discriminant",
			in:        `{"name": "a", "shapes": [{"id": "x"}]}`,
			wantPaths: []string{"shapes[0].kind"},
			wantKind:  ErrMissingField,
		},
		{
			name:      "discriminant not a string",
			in:        `{"name": "a", "shapes": [{"kind": 3}]}`,
			wantPaths: []string{"shapes[0].kind"},
			wantKind:  ErrTypeMismatch,
		},
		{
			name:      "nested variant",
			in:        `{"name": "a", "shapes": [{"kind": "group", "members": [{"kind": "circle", "r": -2}]}]}`,
			wantPaths: []string{"shapes[0].members[0].r"},
			wantKind:  ErrConstraintViolation,
		},
		{
			name:      "duplicate unique key",
			in:        `{"name": "a", "shapes": [{"kind": "circle", "id": "x"}, {"kind": "disc"}, {"kind": "circle", "id": "x"}]}`,
			wantPaths: []string{"shapes[2].id"},
			wantKind:  ErrConstraintViolation,
		},
		{
			name:      "rule",
			in:        `{"name": "a", "bounds": [5, 1]}`,
			wantPaths: []string{"bounds"},
			wantKind:  ErrConstraintViolation,
		},
		{
			name:      "tuple length",
			in:        `{"name": "a", "bounds": [5]}`,
			wantPaths: []string{"bounds"},
			wantKind:  ErrConstraintViolation,
		},
		{
			name:      "no alternative has the shape",
			in:        `{"name": "a", "label": 3}`,
			wantPaths: []string{"label"},
			wantKind:  ErrTypeMismatch,
		},
		{
			name:      "one alternative has the shape",
			in:        `{"name": "a", "label": {"text": 1}}`,
			wantPaths: []string{"label.text"},
			wantKind:  ErrTypeMismatch,
		},
		{
			name:      "typed additional property",
			in:        `{"name": "a", "label": {"text": "t", "n": "x"}}`,
			wantPaths: []string{"label.n"},
			wantKind:  ErrTypeMismatch,
		},
		{
			name:      "map value",
			in:        `{"name": "a", "tags": {"a.b": 1}}`,
			wantPaths: []string{"tags.'a.b'"},
			wantKind:  ErrTypeMismatch,
		},
		{
			name:      "pattern",
			in:        `{"name": "a", "code": "ABC"}`,
			wantPaths: []string{"code"},
			wantKind:  ErrConstraintViolation,
		},
		{
			name:      "enumeration",
			in:        `{"name": "a", "mode": "medium"}`,
			wantPaths: []string{"mode"},
			wantKind:  ErrConstraintViolation,
		},
		{
			name:      "all errors reported",
			in:        `{"size": -1, "shapes": [{"kind": "nope"}], "enabled": "yes"}`,
			wantPaths: []string{"name", "size", "enabled", "shapes[0].kind"},
		},
	}
	r := testRegistry(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Validate("Doc", decode(t, tt.in))
			if got != nil {
				t.Errorf("Validate() returned partial value %v", got)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if diff := cmp.Diff(tt.wantPaths, ve.Paths()); diff != "" {
				t.Errorf("error paths (-want +got):\n%s", diff)
			}
			if tt.wantKind != nil && !errors.Is(err, tt.wantKind) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantKind)
			}
		})
	}
}

func TestValidateErrorDetails(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Validate("Doc", decode(t, `{"name": "a", "shapes": [{"kind": "square"}], "bounds": [3, 1]}`))
	var ide *InvalidDiscriminantError
	if !errors.As(err, &ide) {
		t.Fatalf("want *InvalidDiscriminantError in %v", err)
	}
	if diff := cmp.Diff([]string{"circle", "disc", "group"}, ide.Allowed); diff != "" {
		t.Errorf("Allowed (-want +got):\n%s", diff)
	}
	if ide.Value != "square" {
		t.Errorf("Value = %q", ide.Value)
	}
	ve := err.(*ValidationError)
	// Rules only run on records whose fields validated.
	if len(ve.At("bounds")) != 0 {
		t.Errorf("rule ran on a record with field errors: %v", ve)
	}

	_, err = r.Validate("Doc", decode(t, `{"name": "a", "bounds": [3, 1]}`))
	var cve *ConstraintViolationError
	if !errors.As(err, &cve) {
		t.Fatalf("want *ConstraintViolationError, got %v", err)
	}
	if cve.Constraint != "rule" || cve.Message != "bounds are inverted" {
		t.Errorf("rule violation = %+v", cve)
	}
}

func TestValidateUnknownRoot(t *testing.T) {
	r := testRegistry(t)
	if _, err := r.Validate("Nope", map[string]any{}); !errors.Is(err, ErrNoSuchDefinition) {
		t.Errorf("Validate(Nope) = %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Def: "Doc", Errors: []FieldError{
		&MissingFieldError{Path: "name"},
		&TypeMismatchError{Path: "views[0].tracks.top[1].width", Expected: "integer", Actual: "string"},
	}}
	want := "invalid Doc: 2 errors:\n" +
		"  - name: required field is missing\n" +
		"  - views[0].tracks.top[1].width: expected integer, got string"
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%s\nwant\n%s", got, want)
	}
	one := &ValidationError{Def: "Doc", Errors: []FieldError{&UnknownFieldError{Path: ""}}}
	if got, want := one.Error(), "invalid Doc: (root): field is not allowed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
