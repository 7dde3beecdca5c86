package company

import (
	"context"

	"github.com/kailas-cloud/corpdex/internal/domain/record"
)

// RecordSource loads snapshots of record kinds.
type RecordSource interface {
	Load(ctx context.Context, kind record.Kind) ([]record.Record, error)
	LoadByIDs(ctx context.Context, kind record.Kind, ids []int64) ([]record.Record, error)
}
