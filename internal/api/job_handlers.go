package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func (s *Server) registerJobRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "postJob",
		Method:      http.MethodPost,
		Path:        "/api/v1/jobs",
		Summary:     "Post job",
		Tags:        []string{"Jobs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePostJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "listJobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs",
		Summary:     "List open jobs",
		Tags:        []string{"Jobs"},
	}, s.handleListJobs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getJob",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs/{id}",
		Summary:     "Get job",
		Tags:        []string{"Jobs"},
	}, s.handleGetJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "closeJob",
		Method:      http.MethodPost,
		Path:        "/api/v1/jobs/{id}/close",
		Summary:     "Close job",
		Tags:        []string{"Jobs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCloseJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "applyToJob",
		Method:      http.MethodPost,
		Path:        "/api/v1/jobs/{id}/apply",
		Summary:     "Apply to job",
		Tags:        []string{"Jobs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleApplyToJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "listJobApplications",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs/{id}/applications",
		Summary:     "List applications",
		Description: "Returns a posting's applications; poster only",
		Tags:        []string{"Jobs"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListJobApplications)
}

// === DTOs ===

// PostJobInput wraps a job draft for Huma.
type PostJobInput struct {
	Authorization string `header:"Authorization"`
	Body          domain.JobDraft
}

// JobOutput wraps a single job for Huma.
type JobOutput struct {
	Body *domain.Job
}

// ListJobsInput contains pagination parameters.
type ListJobsInput struct {
	Limit  int `query:"limit" doc:"Page size (max 50)"`
	Offset int `query:"offset" doc:"Page offset"`
}

// JobListOutput wraps a job list for Huma.
type JobListOutput struct {
	Body struct {
		Jobs []*domain.Job `json:"jobs" doc:"Open postings, newest first"`
	}
}

// GetJobInput identifies a job.
type GetJobInput struct {
	ID string `path:"id" doc:"Job ID"`
}

// JobIDInput identifies a job for authenticated operations.
type JobIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Job ID"`
}

// ApplyInput wraps a job application for Huma.
type ApplyInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Job ID"`
	Body          struct {
		CoverNote string `json:"cover_note,omitempty" doc:"Free-text note to the poster"`
	}
}

// ApplicationOutput wraps a single application for Huma.
type ApplicationOutput struct {
	Body *domain.JobApplication
}

// ApplicationListOutput wraps an application list for Huma.
type ApplicationListOutput struct {
	Body struct {
		Applications []*domain.JobApplication `json:"applications" doc:"Applications, oldest first"`
	}
}

// === Handlers ===

func (s *Server) handlePostJob(ctx context.Context, input *PostJobInput) (*JobOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	job, err := s.services.Job.Post(ctx, userID, &input.Body)
	if err != nil {
		return nil, err
	}
	return &JobOutput{Body: job}, nil
}

func (s *Server) handleListJobs(ctx context.Context, input *ListJobsInput) (*JobListOutput, error) {
	jobs, err := s.services.Job.ListOpen(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	out := &JobListOutput{}
	out.Body.Jobs = jobs
	return out, nil
}

func (s *Server) handleGetJob(ctx context.Context, input *GetJobInput) (*JobOutput, error) {
	job, err := s.services.Job.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &JobOutput{Body: job}, nil
}

func (s *Server) handleCloseJob(ctx context.Context, input *JobIDInput) (*struct{}, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Job.Close(ctx, input.ID, userID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleApplyToJob(ctx context.Context, input *ApplyInput) (*ApplicationOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	application, err := s.services.Job.Apply(ctx, input.ID, userID, input.Body.CoverNote)
	if err != nil {
		return nil, err
	}
	return &ApplicationOutput{Body: application}, nil
}

func (s *Server) handleListJobApplications(ctx context.Context, input *JobIDInput) (*ApplicationListOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	applications, err := s.services.Job.Applications(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}
	out := &ApplicationListOutput{}
	out.Body.Applications = applications
	return out, nil
}
