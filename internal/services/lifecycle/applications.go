package lifecycle

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

// Apply creates a pending application. The store's unique key on
// (job, seeker) decides duplicates, not a prior lookup.
func (s *Service) Apply(ctx context.Context, sess Session, jobID uuid.UUID) (app *models.Application, err error) {
	ctx, span := s.startSpan(ctx, "Apply", sess)
	defer func() { endSpan(span, err) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if !sess.IsSeeker() {
		return nil, Forbidden("only job seekers can apply to jobs")
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, s.lookupErr("Apply", "job", err)
	}
	if !CanApply(sess.Role, job) {
		return nil, Conflict("job is no longer open", nil)
	}

	app = &models.Application{
		JobID:    job.ID,
		SeekerID: sess.AccountID,
		Status:   models.ApplicationPending,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, Conflict("you have already applied to this job", err)
		}
		return nil, s.storageErr("Apply", err)
	}

	s.logger.Info("application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("job_id", job.ID.String()),
		zap.String("seeker_id", sess.AccountID.String()))
	s.notify(ctx, Change{Collection: CollectionApplications, Op: OpInsert, ID: app.ID, JobID: job.ID})
	return app, nil
}

// Decide accepts or rejects a pending application on one of the caller's jobs.
func (s *Service) Decide(ctx context.Context, sess Session, applicationID uuid.UUID, outcome models.ApplicationStatus) (app *models.Application, err error) {
	ctx, span := s.startSpan(ctx, "Decide", sess)
	defer func() { endSpan(span, err) }()

	if outcome != models.ApplicationAccepted && outcome != models.ApplicationRejected {
		fields := FieldErrors{}
		fields.Add("status", "status must be accepted or rejected")
		return nil, InvalidInput("invalid decision", fields)
	}
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	app, err = s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, s.lookupErr("Decide", "application", err)
	}
	job, err := s.store.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, s.lookupErr("Decide", "job", err)
	}
	if !CanDecideApplication(sess.Role, sess.AccountID, job) {
		return nil, Forbidden("only the poster who owns this job can decide its applications")
	}
	if app.Status != models.ApplicationPending {
		return nil, Conflict("application has already been "+string(app.Status), nil)
	}

	err = s.store.TransitionApplication(ctx, app.ID, models.ApplicationPending, outcome)
	switch {
	case errors.Is(err, ErrStale):
		return nil, Conflict("application was decided by another request", err)
	case errors.Is(err, ErrNotFound):
		return nil, NotFound("application not found", err)
	case err != nil:
		return nil, s.storageErr("Decide", err)
	}
	app.Status = outcome
	app.UpdatedAt = s.now()

	s.logger.Info("application decided",
		zap.String("application_id", app.ID.String()),
		zap.String("job_id", job.ID.String()),
		zap.String("status", string(outcome)))
	s.notify(ctx, Change{Collection: CollectionApplications, Op: OpUpdate, ID: app.ID, JobID: job.ID})
	return app, nil
}

// SeekerApplications returns the caller's applications newest first, with their jobs.
func (s *Service) SeekerApplications(ctx context.Context, sess Session) ([]models.Application, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if !sess.IsSeeker() {
		return nil, Forbidden("only job seekers have applications")
	}
	apps, err := s.store.ListApplications(ctx, ApplicationFilter{SeekerID: sess.AccountID})
	if err != nil {
		return nil, s.storageErr("SeekerApplications", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}
