// Package store loads the job documents of a user.
package store

import (
	"context"
	"errors"

	"github.com/spigell/comp-forecast/internal/records"
)

// ErrMissingUserID is returned when a lookup has no user to scope it to.
var ErrMissingUserID = errors.New("missing user id")

// Source returns the job records of a user.
type Source interface {
	Jobs(ctx context.Context, userID string) ([]records.JobRecord, error)
}
