package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Field names the engine relies on. Everything else is opaque.
const (
	FieldID        = "id"
	FieldCompanyID = "company_id"
)

// ErrNotObject is returned by Decode when the input is not a JSON object.
var ErrNotObject = errors.New("record is not a JSON object")

// Record is a flat JSON object with a typed identity core.
// Attribute values are whatever encoding/json produces for `any`:
// string, float64, bool, nil, []any or map[string]any.
// Records are immutable once decoded.
type Record struct {
	id            int64
	hasID         bool
	companyID     int64
	hasCompanyID  bool
	idKey         any
	hasIDKey      bool
	companyKey    any
	hasCompanyKey bool
	keys          []string
	fields        map[string]any
}

// Decode parses a single JSON object, keeping the original key order.
// Duplicate keys keep their first position and the last value.
func Decode(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Record{}, ErrNotObject
	}

	r := Record{fields: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Record{}, fmt.Errorf("decode record key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Record{}, fmt.Errorf("decode record: unexpected key token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return Record{}, fmt.Errorf("decode record field %q: %w", key, err)
		}
		r.set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}

	return r, nil
}

func (r *Record) set(key string, v any) {
	if _, exists := r.fields[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = v

	switch key {
	case FieldID:
		r.id, r.hasID = asInt(v)
		r.idKey, r.hasIDKey = joinKey(v)
	case FieldCompanyID:
		r.companyID, r.hasCompanyID = asInt(v)
		r.companyKey, r.hasCompanyKey = joinKey(v)
	}
}

// joinKey keeps scalar values, which compare by value. Objects and arrays
// never equal another record's value and yield no key.
func joinKey(v any) (any, bool) {
	switch v.(type) {
	case nil, string, float64, bool:
		return v, true
	default:
		return nil, false
	}
}

// asInt accepts only integral JSON numbers.
func asInt(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ID returns the record identity. ok is false when "id" is absent or not an integer.
func (r Record) ID() (id int64, ok bool) { return r.id, r.hasID }

// CompanyID returns the owning company id of an employee record.
func (r Record) CompanyID() (id int64, ok bool) { return r.companyID, r.hasCompanyID }

// IDKey returns the raw "id" value as a map key: a string, float64, bool or nil.
// ok is false when "id" is absent or is an object or array.
func (r Record) IDKey() (key any, ok bool) { return r.idKey, r.hasIDKey }

// CompanyIDKey is IDKey for "company_id".
func (r Record) CompanyIDKey() (key any, ok bool) { return r.companyKey, r.hasCompanyKey }

// Get returns the raw attribute value and whether the field is present.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Keys returns field names in their original order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.keys) }

// With returns a copy with the field set. An existing field keeps its position.
func (r Record) With(name string, v any) Record {
	out := Record{
		id: r.id, hasID: r.hasID,
		companyID: r.companyID, hasCompanyID: r.hasCompanyID,
		idKey: r.idKey, hasIDKey: r.hasIDKey,
		companyKey: r.companyKey, hasCompanyKey: r.hasCompanyKey,
		keys:   make([]string, len(r.keys), len(r.keys)+1),
		fields: make(map[string]any, len(r.fields)+1),
	}
	copy(out.keys, r.keys)
	for k, val := range r.fields {
		out.fields[k] = val
	}
	out.set(name, v)
	return out
}

// MarshalJSON writes the fields in their original order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.fields[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FilterByIDs keeps records whose id is in ids, preserving order.
func FilterByIDs(records []Record, ids []int64) []Record {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.hasID {
			if _, ok := want[r.id]; ok {
				out = append(out, r)
			}
		}
	}
	return out
}
