package core

import "depotcore/pkg/domain"

// ApplyOverrides builds the replacement value for an update: the entity's
// record form merged with the named field overrides, decoded back into a
// fresh immutable value. The id cannot be overridden.
func ApplyOverrides[T any](spec domain.Spec[T], obj T, overrides map[string]any) (T, error) {
	var zero T
	rec, err := spec.EncodeRecord(obj)
	if err != nil {
		return zero, err
	}
	merged := domain.CloneRecord(rec)
	for field, value := range overrides {
		if field == "id" {
			continue
		}
		merged[field] = value
	}
	return spec.DecodeRecord(merged)
}
