package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

// GormStore is the relational lifecycle.Store. Status changes are
// conditional updates; zero rows affected means another writer got there first.
type GormStore struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

var _ lifecycle.Store = (*GormStore)(nil)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// postgres / sqlite
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint")
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return lifecycle.ErrNotFound
	case isUniqueViolation(err):
		return lifecycle.ErrDuplicate
	}
	return err
}

func (s *GormStore) AccountExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *GormStore) CreateJob(ctx context.Context, job *models.Job) error {
	return translate(s.DB.WithContext(ctx).Create(job).Error)
}

func (s *GormStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).Preload("Poster").First(&job, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

func (s *GormStore) ListJobs(ctx context.Context, f lifecycle.JobFilter) ([]models.Job, int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Job{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PosterID != uuid.Nil {
		q = q.Where("poster_id = ?", f.PosterID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.MinPay > 0 {
		q = q.Where("pay >= ?", f.MinPay)
	}
	if f.MaxPay > 0 {
		q = q.Where("pay <= ?", f.MaxPay)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Preload("Poster").Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var jobs []models.Job
	if err := q.Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (s *GormStore) CountOpenJobsByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Total    int64
	}
	err := s.DB.WithContext(ctx).
		Model(&models.Job{}).
		Select("category, COUNT(*) AS total").
		Where("status = ?", models.JobStatusOpen).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Category] = r.Total
	}
	return out, nil
}

// CompleteJob flips an open job to completed and rejects its pending
// applications in one transaction. It returns the number rejected.
func (s *GormStore) CompleteJob(ctx context.Context, id uuid.UUID) (int64, error) {
	var rejected int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", id, models.JobStatusOpen).
			Updates(map[string]interface{}{"status": models.JobStatusCompleted, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.missingOrStale(tx, &models.Job{}, id)
		}

		res = tx.Model(&models.Application{}).
			Where("job_id = ? AND status = ?", id, models.ApplicationPending).
			Updates(map[string]interface{}{"status": models.ApplicationRejected, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		rejected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rejected, nil
}

func (s *GormStore) missingOrStale(tx *gorm.DB, model interface{}, id uuid.UUID) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return lifecycle.ErrNotFound
	}
	return lifecycle.ErrStale
}

func (s *GormStore) CreateApplication(ctx context.Context, app *models.Application) error {
	return translate(s.DB.WithContext(ctx).Create(app).Error)
}

func (s *GormStore) GetApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := s.DB.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (s *GormStore) ListApplications(ctx context.Context, f lifecycle.ApplicationFilter) ([]models.Application, error) {
	q := s.DB.WithContext(ctx).Model(&models.Application{})
	if f.JobIDs != nil {
		if len(f.JobIDs) == 0 {
			return []models.Application{}, nil
		}
		q = q.Where("job_id IN ?", f.JobIDs).Preload("Seeker")
	}
	if f.SeekerID != uuid.Nil {
		q = q.Where("seeker_id = ?", f.SeekerID).Preload("Job").Preload("Job.Poster")
	}
	var apps []models.Application
	if err := q.Order("applied_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *GormStore) TransitionApplication(ctx context.Context, id uuid.UUID, from, to models.ApplicationStatus) error {
	db := s.DB.WithContext(ctx)
	res := db.Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.missingOrStale(db, &models.Application{}, id)
	}
	return nil
}

func (s *GormStore) CreateReview(ctx context.Context, review *models.Review) error {
	return translate(s.DB.WithContext(ctx).Create(review).Error)
}

func (s *GormStore) ListReviews(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.WithContext(ctx).
		Preload("Reviewer").
		Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
