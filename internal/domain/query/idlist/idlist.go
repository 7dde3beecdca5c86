package idlist

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMaxIDs is the default cap on ids per by-id query.
const DefaultMaxIDs = 20

var (
	// ErrMalformed signals input that is not comma-separated decimal integers.
	ErrMalformed = errors.New("ids must be comma-separated numeric values")
	// ErrTooMany signals more ids than allowed.
	ErrTooMany = errors.New("too many ids")
)

var pattern = regexp.MustCompile(`^\d+(,\d+)*$`)

// Parse converts "1,2,3" into ids. Order and duplicates are kept.
// maxIDs <= 0 disables the cap.
func Parse(raw string, maxIDs int) ([]int64, error) {
	if raw == "" || !pattern.MatchString(raw) {
		return nil, ErrMalformed
	}

	parts := strings.Split(raw, ",")
	if maxIDs > 0 && len(parts) > maxIDs {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooMany, len(parts), maxIDs)
	}

	ids := make([]int64, len(parts))
	for i, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q out of range", ErrMalformed, p)
		}
		ids[i] = id
	}
	return ids, nil
}
