package domain

import "time"

// Job is a writing-related job posting.
type Job struct {
	ID          string    `json:"id"`
	PosterID    string    `json:"poster_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	SalaryMin   int       `json:"salary_min,omitempty"`
	SalaryMax   int       `json:"salary_max,omitempty"`
	Open        bool      `json:"open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobDraft is the validated input for posting a job.
type JobDraft struct {
	Title       string `json:"title" validate:"required,min=5,max=120"`
	Company     string `json:"company" validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"required,min=50"`
	Location    string `json:"location,omitempty" validate:"max=120"`
	SalaryMin   int    `json:"salary_min,omitempty" validate:"gte=0"`
	SalaryMax   int    `json:"salary_max,omitempty" validate:"gte=0,gtefield=SalaryMin"`
}

// JobApplication records one user applying to one job.
// (JobID, ApplicantID) is unique; a second application is a conflict.
type JobApplication struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	ApplicantID string    `json:"applicant_id"`
	CoverNote   string    `json:"cover_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Applicant is an optional denormalized projection for the poster's view.
	Applicant *Profile `json:"applicant,omitempty"`
}
