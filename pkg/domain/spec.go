package domain

import "encoding/json"

// UniqueRule declares that a field must hold distinct values across a
// collection. When NoCase is set, values compare case-folded. When AllowNone
// is set, nil values are exempt from the rule.
type UniqueRule struct {
	Field     string
	NoCase    bool
	AllowNone bool
}

// Unique builds a rule with AllowNone enabled, the common case.
func Unique(field string, nocase bool) UniqueRule {
	return UniqueRule{Field: field, NoCase: nocase, AllowNone: true}
}

// Validator is a pluggable business rule evaluated after the unique rules
// pass. It receives the environment, the current raw rows of the collection,
// the typed candidate, and the id excluded from comparison (nil on create).
// A non-empty return value is surfaced verbatim as the failure code.
type Validator[T any] func(env *Env, rows map[int64]Record, candidate T, excludeID *int64) string

// Spec is the immutable descriptor binding an entity type to its collection
// name, serialization adapter, and validation rules. Specs are created once
// at startup and shared by all operations.
type Spec[T any] struct {
	Table     string
	Unique    []UniqueRule
	Validator Validator[T]

	// Encode/Decode override the default JSON round-trip adapter.
	Encode func(T) (Record, error)
	Decode func(Record) (T, error)
}

// EncodeRecord converts a typed entity into its raw record form.
func (s Spec[T]) EncodeRecord(v T) (Record, error) {
	if s.Encode != nil {
		return s.Encode(v)
	}
	return EncodeRecord(v)
}

// DecodeRecord converts a raw record back into the typed entity. Fields not
// present on the entity are ignored.
func (s Spec[T]) DecodeRecord(rec Record) (T, error) {
	if s.Decode != nil {
		return s.Decode(rec)
	}
	return DecodeRecord[T](rec)
}

// NoCaseFor reports whether the named field is declared case-insensitive by
// one of the spec's unique rules.
func (s Spec[T]) NoCaseFor(field string) bool {
	for _, rule := range s.Unique {
		if rule.Field == field {
			return rule.NoCase
		}
	}
	return false
}

// EncodeRecord is the default raw adapter: a JSON round-trip producing the
// record shape persisted on disk.
func EncodeRecord[T any](v T) (Record, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeRecord is the default typed adapter, ignoring unknown fields.
func DecodeRecord[T any](rec Record) (T, error) {
	var out T
	payload, err := json.Marshal(rec)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, err
	}
	return out, nil
}
