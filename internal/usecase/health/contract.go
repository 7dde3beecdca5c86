package health

import (
	"context"

	"github.com/kailas-cloud/corpdex/internal/domain/record"
)

// StoragePinger checks that a record kind's storage location is readable.
type StoragePinger interface {
	Ping(ctx context.Context, kind record.Kind) error
}
