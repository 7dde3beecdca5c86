package corpdex

import (
	"github.com/kailas-cloud/corpdex/internal/domain"
	"github.com/kailas-cloud/corpdex/internal/domain/query/idlist"
	"github.com/kailas-cloud/corpdex/internal/domain/query/page"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrStorageUnavailable = domain.ErrStorageUnavailable
	ErrInvalidInput       = domain.ErrInvalidInput
	ErrInvalidWindow      = page.ErrInvalidWindow
	ErrMalformedIDs       = idlist.ErrMalformed
	ErrTooManyIDs         = idlist.ErrTooMany
)
