// Package field models request fields that can be absent, explicit null, or
// set, so PATCH bodies can tell "leave alone" from "clear".
package field

import (
	"bytes"
	"encoding/json"
)

// Null is a nullable field. Set is true whenever the key appeared in the
// body; Valid is false when its value was JSON null.
type Null[T any] struct {
	Set   bool
	Valid bool
	V     T
}

func Value[T any](v T) Null[T] { return Null[T]{Set: true, Valid: true, V: v} }

func Cleared[T any]() Null[T] { return Null[T]{Set: true} }

func (n *Null[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		var zero T
		n.V = zero
		return nil
	}
	if err := json.Unmarshal(data, &n.V); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n Null[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.V)
}

// Ptr returns nil for null or absent values, which pgx writes as SQL NULL.
func (n Null[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}

// Or returns the new value when set, otherwise current.
func (n Null[T]) Or(current *T) *T {
	if !n.Set {
		return current
	}
	return n.Ptr()
}
