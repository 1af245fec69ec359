package domain

import (
	"bytes"
	"encoding/json"
)

// Nullable is a patch field for a nullable column. Set records whether the
// field was supplied at all; a set field with a nil Value clears the column.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set field holding v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a set field that clears the column.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON is only called for keys present in the document, including
// an explicit null.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// IsNull reports whether the field was supplied as null.
func (n Nullable[T]) IsNull() bool {
	return n.Set && n.Value == nil
}

// ApplyTo writes the field onto dst when it was supplied.
func (n Nullable[T]) ApplyTo(dst **T) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		*dst = nil
		return
	}
	v := *n.Value
	*dst = &v
}

// ValidationValue exposes the supplied value to struct validation. Absent
// and null fields yield nil so omitempty rules skip them.
func (n Nullable[T]) ValidationValue() interface{} {
	if n.Value == nil {
		return nil
	}
	return n.Value
}
