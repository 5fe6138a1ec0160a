package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

const (
	maxTitleLen    = 200
	maxPay         = 1_000_000
	defaultPageLen = 20
	maxPageLen     = 100
)

// JobInput is a posting form as submitted. Pay arrives as text.
type JobInput struct {
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Location     string   `json:"location"`
	Pay          string   `json:"pay"`
	Description  string   `json:"description"`
	Duration     string   `json:"duration"`
	Requirements []string `json:"requirements"`
}

// ParsePay reads an hourly rate such as "20", "17.50" or "$15".
func ParsePay(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return 0, fmt.Errorf("pay is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("pay must be a number")
	}
	if v < 0 {
		return 0, fmt.Errorf("pay must not be negative")
	}
	if v >= maxPay {
		return 0, fmt.Errorf("pay is too large")
	}
	return math.Round(v*100) / 100, nil
}

func (in JobInput) validate() (*models.Job, FieldErrors) {
	errs := FieldErrors{}
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)
	location := strings.TrimSpace(in.Location)
	description := strings.TrimSpace(in.Description)

	if title == "" {
		errs.Add("title", "title is required")
	} else if len(title) > maxTitleLen {
		errs.Add("title", fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if category == "" {
		errs.Add("category", "category is required")
	} else if !models.IsJobCategory(category) {
		errs.Add("category", "category must be one of "+strings.Join(models.JobCategories, ", "))
	}
	if location == "" {
		errs.Add("location", "location is required")
	}
	if description == "" {
		errs.Add("description", "description is required")
	}
	pay, err := ParsePay(in.Pay)
	if err != nil {
		errs.Add("pay", err.Error())
	}

	reqs := make([]string, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	job := &models.Job{
		Title:       title,
		Category:    category,
		Location:    location,
		Pay:         pay,
		Description: description,
		Duration:    strings.TrimSpace(in.Duration),
		Status:      models.JobStatusOpen,
	}
	if len(reqs) > 0 {
		raw, _ := json.Marshal(reqs)
		job.Requirements = raw
	}
	return job, nil
}

func (s *Service) CreateJob(ctx context.Context, sess Session, in JobInput) (job *models.Job, err error) {
	ctx, span := s.startSpan(ctx, "CreateJob", sess)
	defer func() { endSpan(span, err) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if !CanPostJob(sess.Role) {
		return nil, Forbidden("only job posters can post jobs")
	}
	job, fields := in.validate()
	if fields != nil {
		return nil, InvalidInput("invalid job posting", fields)
	}
	job.PosterID = sess.AccountID

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, s.storageErr("CreateJob", err)
	}

	s.logger.Info("job posted",
		zap.String("job_id", job.ID.String()),
		zap.String("poster_id", job.PosterID.String()),
		zap.String("category", job.Category))
	s.notify(ctx, Change{Collection: CollectionJobs, Op: OpInsert, ID: job.ID, JobID: job.ID})
	return job, nil
}

// CompleteJob moves an open job to completed. Completing twice is a Conflict.
// Pending applications on the job are rejected in the same write.
func (s *Service) CompleteJob(ctx context.Context, sess Session, jobID uuid.UUID) (job *models.Job, err error) {
	ctx, span := s.startSpan(ctx, "CompleteJob", sess)
	defer func() { endSpan(span, err) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}
	job, err = s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, s.lookupErr("CompleteJob", "job", err)
	}
	if !CanDecideApplication(sess.Role, sess.AccountID, job) {
		return nil, Forbidden("only the poster who owns this job can complete it")
	}
	if !CanMarkComplete(sess.Role, sess.AccountID, job) {
		return nil, Conflict("job is already completed", nil)
	}

	rejected, err := s.store.CompleteJob(ctx, job.ID)
	switch {
	case errors.Is(err, ErrStale):
		return nil, Conflict("job is already completed", err)
	case errors.Is(err, ErrNotFound):
		return nil, NotFound("job not found", err)
	case err != nil:
		return nil, s.storageErr("CompleteJob", err)
	}

	job.Status = models.JobStatusCompleted
	job.UpdatedAt = s.now()

	s.logger.Info("job completed",
		zap.String("job_id", job.ID.String()),
		zap.Int64("auto_rejected", rejected))
	s.notify(ctx, Change{Collection: CollectionJobs, Op: OpUpdate, ID: job.ID, JobID: job.ID})
	if rejected > 0 {
		s.notify(ctx, Change{Collection: CollectionApplications, Op: OpUpdate, JobID: job.ID})
	}
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, s.lookupErr("GetJob", "job", err)
	}
	return job, nil
}

type JobPage struct {
	Items []models.Job `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// BrowseJobs lists open jobs newest first. page is 1-based.
func (s *Service) BrowseJobs(ctx context.Context, f JobFilter, page int) (*JobPage, error) {
	if f.Limit < 1 {
		f.Limit = defaultPageLen
	}
	if f.Limit > maxPageLen {
		f.Limit = maxPageLen
	}
	if page < 1 {
		page = 1
	}
	f.Offset = (page - 1) * f.Limit
	f.Status = models.JobStatusOpen
	f.Query = strings.TrimSpace(f.Query)
	if f.Category == "all" {
		f.Category = ""
	}
	if f.MinPay < 0 || (f.MaxPay > 0 && f.MinPay > f.MaxPay) {
		fields := FieldErrors{}
		fields.Add("min", "min pay must be between 0 and max pay")
		return nil, InvalidInput("invalid filter", fields)
	}

	items, total, err := s.store.ListJobs(ctx, f)
	if err != nil {
		return nil, s.storageErr("BrowseJobs", err)
	}
	if items == nil {
		items = []models.Job{}
	}
	return &JobPage{Items: items, Total: total, Page: page, Limit: f.Limit}, nil
}

// PosterDashboard returns the caller's jobs, newest first, each with its applications.
func (s *Service) PosterDashboard(ctx context.Context, sess Session) ([]models.Job, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if !sess.IsPoster() {
		return nil, Forbidden("only job posters have a job dashboard")
	}
	jobs, _, err := s.store.ListJobs(ctx, JobFilter{PosterID: sess.AccountID})
	if err != nil {
		return nil, s.storageErr("PosterDashboard", err)
	}
	if len(jobs) == 0 {
		return []models.Job{}, nil
	}

	ids := make([]uuid.UUID, 0, len(jobs))
	byJob := make(map[uuid.UUID]int, len(jobs))
	for i := range jobs {
		ids = append(ids, jobs[i].ID)
		byJob[jobs[i].ID] = i
		jobs[i].Applications = []models.Application{}
	}
	apps, err := s.store.ListApplications(ctx, ApplicationFilter{JobIDs: ids})
	if err != nil {
		return nil, s.storageErr("PosterDashboard", err)
	}
	for _, app := range apps {
		if i, ok := byJob[app.JobID]; ok {
			jobs[i].Applications = append(jobs[i].Applications, app)
		}
	}
	return jobs, nil
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Categories lists every posting category with its number of open jobs.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	counts, err := s.store.CountOpenJobsByCategory(ctx)
	if err != nil {
		return nil, s.storageErr("Categories", err)
	}
	out := make([]CategoryCount, 0, len(models.JobCategories))
	for _, name := range models.JobCategories {
		out = append(out, CategoryCount{Name: name, Count: counts[name]})
	}
	return out, nil
}
