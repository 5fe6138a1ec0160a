package lifecycle

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

type fakeStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]bool
	jobs     map[uuid.UUID]*models.Job
	apps     map[uuid.UUID]*models.Application
	reviews  []models.Review
	clock    time.Time
	failWith error
	// beforeTransition runs inside TransitionApplication before the status check.
	beforeTransition func(app *models.Application)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[uuid.UUID]bool),
		jobs:     make(map[uuid.UUID]*models.Job),
		apps:     make(map[uuid.UUID]*models.Application),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) addAccount() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.accounts[id] = true
	return id
}

func (f *fakeStore) AccountExists(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}
	return f.accounts[id], nil
}

func (f *fakeStore) CreateJob(ctx context.Context, job *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	job.ID = uuid.New()
	job.CreatedAt = f.tick()
	job.UpdatedAt = job.CreatedAt
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	job, ok := f.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (f *fakeStore) ListJobs(ctx context.Context, flt JobFilter) ([]models.Job, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	var out []models.Job
	for _, j := range f.jobs {
		if flt.Status != "" && j.Status != flt.Status {
			continue
		}
		if flt.PosterID != uuid.Nil && j.PosterID != flt.PosterID {
			continue
		}
		if flt.Category != "" && j.Category != flt.Category {
			continue
		}
		if flt.Query != "" {
			q := strings.ToLower(flt.Query)
			if !strings.Contains(strings.ToLower(j.Title), q) && !strings.Contains(strings.ToLower(j.Description), q) {
				continue
			}
		}
		if j.Pay < flt.MinPay || (flt.MaxPay > 0 && j.Pay > flt.MaxPay) {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	total := int64(len(out))
	if flt.Offset > len(out) {
		out = nil
	} else {
		out = out[flt.Offset:]
	}
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, total, nil
}

func (f *fakeStore) CountOpenJobsByCategory(ctx context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, j := range f.jobs {
		if j.Status == models.JobStatusOpen {
			counts[j.Category]++
		}
	}
	return counts, nil
}

func (f *fakeStore) CompleteJob(ctx context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return 0, f.failWith
	}
	job, ok := f.jobs[id]
	if !ok {
		return 0, ErrNotFound
	}
	if job.Status != models.JobStatusOpen {
		return 0, ErrStale
	}
	job.Status = models.JobStatusCompleted
	var rejected int64
	for _, app := range f.apps {
		if app.JobID == id && app.Status == models.ApplicationPending {
			app.Status = models.ApplicationRejected
			rejected++
		}
	}
	return rejected, nil
}

func (f *fakeStore) CreateApplication(ctx context.Context, app *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for _, existing := range f.apps {
		if existing.JobID == app.JobID && existing.SeekerID == app.SeekerID {
			return ErrDuplicate
		}
	}
	app.ID = uuid.New()
	app.AppliedAt = f.tick()
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeStore) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeStore) ListApplications(ctx context.Context, flt ApplicationFilter) ([]models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	jobSet := map[uuid.UUID]bool{}
	for _, id := range flt.JobIDs {
		jobSet[id] = true
	}
	var out []models.Application
	for _, app := range f.apps {
		if len(jobSet) > 0 && !jobSet[app.JobID] {
			continue
		}
		if flt.SeekerID != uuid.Nil && app.SeekerID != flt.SeekerID {
			continue
		}
		out = append(out, *app)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].AppliedAt.After(out[b].AppliedAt) })
	return out, nil
}

func (f *fakeStore) TransitionApplication(ctx context.Context, id uuid.UUID, from, to models.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return ErrNotFound
	}
	if f.beforeTransition != nil {
		f.beforeTransition(app)
	}
	if app.Status != from {
		return ErrStale
	}
	app.Status = to
	return nil
}

func (f *fakeStore) CreateReview(ctx context.Context, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	review.ID = uuid.New()
	review.CreatedAt = f.tick()
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeStore) ListReviews(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Review
	for i := len(f.reviews) - 1; i >= 0; i-- {
		if f.reviews[i].RevieweeID == revieweeID {
			out = append(out, f.reviews[i])
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []Change
}

func (n *recordingNotifier) Notify(ctx context.Context, change Change) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, change)
	return nil
}

func (n *recordingNotifier) last() Change {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.changes) == 0 {
		return Change{}
	}
	return n.changes[len(n.changes)-1]
}
