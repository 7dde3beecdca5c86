package corpdex

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/corpdex/internal/domain/query/mode"
	"github.com/kailas-cloud/corpdex/internal/domain/record"
)

// Record is a company as returned by queries: the original fields in their
// original order, plus an "employees" array when employees were requested.
// Use Get, Keys and ID to inspect it, or json.Marshal to serialize it.
type Record = record.Record

// Mode controls how filter values are matched.
type Mode = mode.Mode

// Filter mode constants.
const (
	Inclusive = mode.Inclusive
	Exclusive = mode.Exclusive
)

// Decode converts query results into typed values through their JSON form.
func Decode[T any](recs []Record) ([]T, error) {
	out := make([]T, len(recs))
	for i, r := range recs {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		if err := json.Unmarshal(data, &out[i]); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
	}
	return out, nil
}
