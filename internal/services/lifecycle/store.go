package lifecycle

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

// Sentinel errors every Store implementation reports.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("unique constraint violated")
	// ErrStale means a conditional write found the row in another state.
	ErrStale = errors.New("row changed since it was read")
)

type JobFilter struct {
	Status   models.JobStatus // empty = any
	PosterID uuid.UUID        // uuid.Nil = any
	Category string
	Query    string // case-insensitive match on title or description
	MinPay   float64
	MaxPay   float64 // 0 = unbounded
	Limit    int
	Offset   int
}

type ApplicationFilter struct {
	JobIDs   []uuid.UUID
	SeekerID uuid.UUID
}

// Store is the persistence collaborator. Uniqueness and status transitions
// must be enforced by the store itself: CreateApplication fails with
// ErrDuplicate on a second (job, seeker) pair, and the Complete/Transition
// calls only write when the row still holds the expected status.
type Store interface {
	AccountExists(ctx context.Context, id uuid.UUID) (bool, error)

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context, f JobFilter) ([]models.Job, int64, error)
	CountOpenJobsByCategory(ctx context.Context) (map[string]int64, error)
	// CompleteJob flips open -> completed and rejects the job's pending
	// applications in one transaction. Returns the number of applications rejected.
	CompleteJob(ctx context.Context, id uuid.UUID) (int64, error)

	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error)
	ListApplications(ctx context.Context, f ApplicationFilter) ([]models.Application, error)
	TransitionApplication(ctx context.Context, id uuid.UUID, from, to models.ApplicationStatus) error

	CreateReview(ctx context.Context, review *models.Review) error
	ListReviews(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error)
}
