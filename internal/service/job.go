package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// maxCoverNoteLen bounds the free-text note on a job application.
const maxCoverNoteLen = 2000

// JobService manages job postings and applications.
type JobService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewJobService creates a new job service.
func NewJobService(store *sqlite.Store, validator *validation.Validator, logger *slog.Logger) *JobService {
	return &JobService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Post validates and creates a job posting. New postings are open.
func (s *JobService) Post(ctx context.Context, posterID string, draft *domain.JobDraft) (*domain.Job, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, err
	}

	jobID, err := id.Generate("job")
	if err != nil {
		return nil, fmt.Errorf("generating job id: %w", err)
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:          jobID,
		PosterID:    posterID,
		Title:       strings.TrimSpace(draft.Title),
		Company:     strings.TrimSpace(draft.Company),
		Description: draft.Description,
		Location:    strings.TrimSpace(draft.Location),
		SalaryMin:   draft.SalaryMin,
		SalaryMax:   draft.SalaryMax,
		Open:        true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	s.logger.Info("job posted", "job_id", job.ID, "poster_id", posterID, "company", job.Company)
	return job, nil
}

// Get returns one job posting.
func (s *JobService) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.store.GetJob(ctx, jobID)
}

// ListOpen returns open postings, newest first.
func (s *JobService) ListOpen(ctx context.Context, limit, offset int) ([]*domain.Job, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListOpenJobs(ctx, limit, offset)
}

// ListByPoster returns all postings by a user, open and closed.
func (s *JobService) ListByPoster(ctx context.Context, posterID string) ([]*domain.Job, error) {
	return s.store.ListJobsByPoster(ctx, posterID)
}

// Close marks a posting as closed. Only the poster may close it; closing an
// already-closed posting is a no-op.
func (s *JobService) Close(ctx context.Context, jobID, posterID string) error {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.PosterID != posterID {
		return errors.Forbidden("only the poster can close this job")
	}
	if !job.Open {
		return nil
	}
	return s.store.CloseJob(ctx, jobID, posterID)
}

// Apply submits an application to an open posting. A user applies to a
// posting at most once and never to their own.
func (s *JobService) Apply(ctx context.Context, jobID, applicantID, coverNote string) (*domain.JobApplication, error) {
	coverNote = strings.TrimSpace(coverNote)
	if len(coverNote) > maxCoverNoteLen {
		return nil, errors.Validationf("cover note must be at most %d characters", maxCoverNoteLen)
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.PosterID == applicantID {
		return nil, errors.Validation("you cannot apply to your own job")
	}
	if !job.Open {
		return nil, errors.Conflict("this job is no longer accepting applications")
	}

	applicationID, err := id.Generate("app")
	if err != nil {
		return nil, fmt.Errorf("generating application id: %w", err)
	}

	application := &domain.JobApplication{
		ID:          applicationID,
		JobID:       jobID,
		ApplicantID: applicantID,
		CoverNote:   coverNote,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateJobApplication(ctx, application); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.AlreadyExists("you already applied to this job")
		}
		return nil, fmt.Errorf("creating application: %w", err)
	}

	s.logger.Info("job application submitted", "job_id", jobID, "applicant_id", applicantID)
	return application, nil
}

// Applications returns a posting's applications, oldest first. Only the
// poster may see them.
func (s *JobService) Applications(ctx context.Context, jobID, posterID string) ([]*domain.JobApplication, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.PosterID != posterID {
		return nil, errors.Forbidden("only the poster can view applications")
	}
	return s.store.ListJobApplications(ctx, jobID)
}

// HasApplied reports whether the user has applied to the posting.
func (s *JobService) HasApplied(ctx context.Context, jobID, applicantID string) (bool, error) {
	return s.store.HasApplied(ctx, jobID, applicantID)
}
