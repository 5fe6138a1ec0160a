package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Collection string

const (
	CollectionJobs         Collection = "jobs"
	CollectionApplications Collection = "applications"
	CollectionReviews      Collection = "reviews"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
)

// Change tells viewers that a collection moved and they should re-read it.
// It is an invalidation signal, not a replica of the row.
type Change struct {
	Collection Collection `json:"collection"`
	Op         Op         `json:"op"`
	ID         uuid.UUID  `json:"id,omitempty"`
	JobID      uuid.UUID  `json:"job_id,omitempty"`
	At         time.Time  `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, change Change) error
}

type NotifierFunc func(ctx context.Context, change Change) error

func (f NotifierFunc) Notify(ctx context.Context, change Change) error {
	return f(ctx, change)
}
