package model

import "encoding/json"

// Optional is a JSON field in a sparse update payload. It tells apart a
// field that was absent, a field that was explicitly null, and a value.
//
//	{}                  -> Set=false
//	{"tags": null}      -> Set=true, Null=true
//	{"tags": "forest"}  -> Set=true, Value="forest"
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// HasValue reports whether the field was provided with a non-null value.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// UnmarshalJSON records presence; encoding/json only calls it for keys that
// appear in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes the value, or null when absent or cleared.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.HasValue() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// requireNonNull reports an error for an explicit null on a required field.
func requireNonNull[T any](errs []FieldError, field string, o Optional[T]) []FieldError {
	if o.Set && o.Null {
		errs = append(errs, FieldError{Field: field, Message: field + " cannot be null"})
	}
	return errs
}
