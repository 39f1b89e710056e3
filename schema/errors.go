package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField        = errors.New("missing required field")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrInvalidDiscriminant = errors.New("invalid discriminant")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrUnknownField        = errors.New("unknown field")

	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrNotResolved         = errors.New("registry is not resolved")
	ErrResolved            = errors.New("registry is already resolved")
	ErrNoSuchDefinition    = errors.New("no such definition")
)

// FieldError is a validation failure located at a kinded path.
type FieldError interface {
	error
	FieldPath() string
}

func where(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

// MissingFieldError reports an absent required field.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: required field is missing", where(e.Path))
}
func (e *MissingFieldError) FieldPath() string    { return e.Path }
func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// TypeMismatchError reports a value of the wrong shape.
type TypeMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", where(e.Path), e.Expected, e.Actual)
}
func (e *TypeMismatchError) FieldPath() string    { return e.Path }
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// InvalidDiscriminantError reports a union tag value naming no variant.
type InvalidDiscriminantError struct {
	Path    string
	Value   string
	Allowed []string
}

func (e *InvalidDiscriminantError) Error() string {
	return fmt.Sprintf("%s: %q is not one of %d known values", where(e.Path), e.Value, len(e.Allowed))
}
func (e *InvalidDiscriminantError) FieldPath() string    { return e.Path }
func (e *InvalidDiscriminantError) Is(target error) bool { return target == ErrInvalidDiscriminant }

// ConstraintViolationError reports a well-typed value that breaks a
// constraint such as a minimum, a pattern, an enumeration or a rule.
type ConstraintViolationError struct {
	Path       string
	Constraint string // minimum, pattern, enum, minItems, maxItems, length, unique, rule
	Message    string
	Value      any
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("%s: %s", where(e.Path), e.Message)
}
func (e *ConstraintViolationError) FieldPath() string    { return e.Path }
func (e *ConstraintViolationError) Is(target error) bool { return target == ErrConstraintViolation }

// UnknownFieldError reports an undeclared key in a record that forbids them.
type UnknownFieldError struct {
	Path string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: field is not allowed", where(e.Path))
}
func (e *UnknownFieldError) FieldPath() string    { return e.Path }
func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// ValidationError collects every FieldError found validating one document.
type ValidationError struct {
	Def    string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return fmt.Sprintf("invalid %s", e.Def)
	case 1:
		return fmt.Sprintf("invalid %s: %s", e.Def, e.Errors[0].Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s: %d errors:", e.Def, len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&b, "\n  - %s", err.Error())
	}
	return b.String()
}

// Unwrap returns the field errors for errors.Is/As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Paths returns the path of every field error, in report order.
func (e *ValidationError) Paths() []string {
	res := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		res[i] = err.FieldPath()
	}
	return res
}

// At returns the field errors reported at path.
func (e *ValidationError) At(path string) []FieldError {
	var res []FieldError
	for _, err := range e.Errors {
		if err.FieldPath() == path {
			res = append(res, err)
		}
	}
	return res
}

func (e *ValidationError) add(err FieldError) {
	e.Errors = append(e.Errors, err)
}

// UnresolvedReferenceError reports a Ref to a name that was never defined.
// From locates the reference, such as "CombinedTrack.contents".
type UnresolvedReferenceError struct {
	From string
	Name string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s: reference to undefined type %q", e.From, e.Name)
}
func (e *UnresolvedReferenceError) Is(target error) bool { return target == ErrUnresolvedReference }

// DefinitionError reports an inconsistent definition found while defining
// or resolving a registry.
type DefinitionError struct {
	Def     string
	Message string
	Err     error
}

func (e *DefinitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("definition %s: %s: %v", e.Def, e.Message, e.Err)
	}
	return fmt.Sprintf("definition %s: %s", e.Def, e.Message)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}
