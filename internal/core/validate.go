package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"depotcore/pkg/domain"
)

// canonicalString renders a field value for comparison. Numeric values get a
// fixed decimal form so a JSON-decoded float64 and a caller-supplied int64
// compare equal: fmt.Sprint would print 1e6 and larger floats in exponent
// notation while the int prints plain digits.
func canonicalString(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case int:
		return strconv.FormatInt(int64(n), 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case json.Number:
		return n.String()
	default:
		return fmt.Sprint(v)
	}
}

// normalizeValue folds a field value for uniqueness comparison. The second
// return is false for nil values, which rules may exempt entirely.
func normalizeValue(rule domain.UniqueRule, value any) (string, bool) {
	if value == nil {
		return "", false
	}
	s := canonicalString(value)
	if rule.NoCase {
		s = strings.ToLower(s)
	}
	return s, true
}

// validate runs the spec's uniqueness rules in declaration order against the
// current rows, then the custom validator. The first violation wins; an empty
// return means the candidate is acceptable. excludeID removes the record
// being updated from comparison. Validation never mutates state and is re-run
// from scratch against freshly read rows on every write.
func validate[T any](env *domain.Env, spec domain.Spec[T], rows map[int64]domain.Record, candidate T, raw domain.Record, excludeID *int64) string {
	for _, rule := range spec.Unique {
		norm, present := normalizeValue(rule, raw[rule.Field])
		if !present && rule.AllowNone {
			continue
		}
		for id, row := range rows {
			if excludeID != nil && id == *excludeID {
				continue
			}
			existing, existingPresent := normalizeValue(rule, row[rule.Field])
			if existingPresent != present {
				continue
			}
			if existing == norm {
				return string(domain.UniqueViolation(rule.Field))
			}
		}
	}
	if spec.Validator != nil {
		return spec.Validator(env, rows, candidate, excludeID)
	}
	return ""
}
