package model

import "encoding/json"

// Optional distinguishes a JSON field that was absent from one that was
// present, including present-but-null. Set reports presence; Value is nil
// when the field was null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Some wraps a value as a present Optional. Mostly a test convenience.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null is a present Optional carrying JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}
