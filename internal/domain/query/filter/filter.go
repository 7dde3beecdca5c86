package filter

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/corpdex/internal/domain/query/mode"
	"github.com/kailas-cloud/corpdex/internal/domain/record"
)

// MaxFields is the maximum number of fields in a filter specification.
const MaxFields = 32

// Spec maps record field names to desired values.
// Values are strings, numbers or booleans; anything else is compared as text.
type Spec struct {
	keys   []string
	values map[string]any
}

// NewSpec creates a Spec. Keys are evaluated in sorted order.
func NewSpec(values map[string]any) Spec {
	if len(values) == 0 {
		return Spec{}
	}
	keys := make([]string, 0, len(values))
	vals := make(map[string]any, len(values))
	for k, v := range values {
		keys = append(keys, k)
		vals[k] = v
	}
	sort.Strings(keys)
	return Spec{keys: keys, values: vals}
}

// IsEmpty reports whether the spec has no fields.
func (s Spec) IsEmpty() bool { return len(s.keys) == 0 }

// Len returns the number of fields.
func (s Spec) Len() int { return len(s.keys) }

// Keys returns field names in evaluation order.
func (s Spec) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Value returns the desired value for a field.
func (s Spec) Value(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// ParseValue converts a raw query-string value into a filter value.
// "true" and "false" become booleans so that boolean fields compare by equality.
func ParseValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	default:
		return raw
	}
}

// Matches reports whether r satisfies every field of s under m.
// An empty spec matches everything. Evaluation stops at the first failing field.
func Matches(r record.Record, s Spec, m mode.Mode) bool {
	for _, key := range s.keys {
		if !matchField(r, key, s.values[key], m) {
			return false
		}
	}
	return true
}

func matchField(r record.Record, key string, want any, m mode.Mode) bool {
	got, present := r.Get(key)

	if gb, ok := got.(bool); ok && present {
		if wb, ok := want.(bool); ok {
			return gb == wb
		}
	}

	contains := strings.Contains(
		strings.ToLower(Text(got, present)),
		strings.ToLower(Text(want, true)),
	)
	if m == mode.Exclusive {
		return !contains
	}
	return contains
}

// Apply returns the records matching s under m, in their original order.
func Apply(records []record.Record, s Spec, m mode.Mode) []record.Record {
	if s.IsEmpty() {
		return records
	}
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, s, m) {
			out = append(out, r)
		}
	}
	return out
}
