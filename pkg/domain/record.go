package domain

import "encoding/json"

// CurrentSnapshotVersion tags the on-disk snapshot format.
const CurrentSnapshotVersion = 1

// Record is the normalized field-value representation of one entity instance
// as stored. Values hold JSON-shaped data: string, float64, bool, nil, nested
// map[string]any and []any.
type Record = map[string]any

// Snapshot is the full store state: a format version plus one id-keyed record
// map per collection. Snapshots are treated as immutable values; mutations go
// through WithCollection which copies the touched collection.
type Snapshot struct {
	Version int                         `json:"version"`
	Data    map[string]map[int64]Record `json:"data"`
}

// NewSnapshot returns an empty snapshot at the current format version.
func NewSnapshot() Snapshot {
	return Snapshot{Version: CurrentSnapshotVersion, Data: map[string]map[int64]Record{}}
}

// Collection returns the record map for the named collection. The result may
// be nil and must not be mutated.
func (s Snapshot) Collection(name string) map[int64]Record {
	return s.Data[name]
}

// WithCollection returns a new snapshot whose named collection is replaced by
// rows. The top-level map is copied; untouched collections are shared.
func (s Snapshot) WithCollection(name string, rows map[int64]Record) Snapshot {
	data := make(map[string]map[int64]Record, len(s.Data)+1)
	for k, v := range s.Data {
		data[k] = v
	}
	data[name] = rows
	version := s.Version
	if version == 0 {
		version = CurrentSnapshotVersion
	}
	return Snapshot{Version: version, Data: data}
}

// Clone deep-copies the snapshot, including nested record values.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Version: s.Version, Data: make(map[string]map[int64]Record, len(s.Data))}
	if out.Version == 0 {
		out.Version = CurrentSnapshotVersion
	}
	for name, rows := range s.Data {
		cloned := make(map[int64]Record, len(rows))
		for id, rec := range rows {
			cloned[id] = CloneRecord(rec)
		}
		out.Data[name] = cloned
	}
	return out
}

// CloneRecord deep-copies a record, descending into nested maps and slices.
func CloneRecord(rec Record) Record {
	if rec == nil {
		return nil
	}
	return cloneValue(rec).(map[string]any)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// RecordID extracts the mandatory integer id from a raw record. The second
// return is false when the field is absent or not numeric.
func RecordID(rec Record) (int64, bool) {
	switch id := rec["id"].(type) {
	case float64:
		return int64(id), true
	case int64:
		return id, true
	case int:
		return int64(id), true
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
