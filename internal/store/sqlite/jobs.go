package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// jobColumns is the ordered list of columns selected in job queries.
// Must match the scan order in scanJob.
const jobColumns = `id, poster_id, title, company, description, location, salary_min, salary_max, open, created_at, updated_at`

func scanJob(scanner interface{ Scan(dest ...any) error }) (*domain.Job, error) {
	var j domain.Job

	var (
		location  sql.NullString
		open      int
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&j.ID,
		&j.PosterID,
		&j.Title,
		&j.Company,
		&j.Description,
		&location,
		&j.SalaryMin,
		&j.SalaryMax,
		&open,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	j.Location = location.String
	j.Open = open != 0

	j.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	j.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &j, nil
}

// CreateJob inserts a new job posting.
func (s *Store) CreateJob(ctx context.Context, j *domain.Job) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, poster_id, title, company, description, location, salary_min, salary_max, open, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID,
		j.PosterID,
		j.Title,
		j.Company,
		j.Description,
		nullString(j.Location),
		j.SalaryMin,
		j.SalaryMax,
		boolToInt(j.Open),
		formatTime(j.CreatedAt),
		formatTime(j.UpdatedAt),
	)
	return err
}

// GetJob retrieves a job posting by ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, jobID)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// ListOpenJobs returns open postings, newest-first.
func (s *Store) ListOpenJobs(ctx context.Context, limit, offset int) ([]*domain.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE open = 1 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

// ListJobsByPoster returns all of a poster's jobs, open or closed.
func (s *Store) ListJobsByPoster(ctx context.Context, posterID string) ([]*domain.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE poster_id = ? ORDER BY created_at DESC`,
		posterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

func collectJobs(rows *sql.Rows) ([]*domain.Job, error) {
	var jobs []*domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []*domain.Job{}
	}
	return jobs, nil
}

// CloseJob marks a job closed, scoped to its poster.
// Closing someone else's job affects zero rows and returns store.ErrNotFound.
func (s *Store) CloseJob(ctx context.Context, jobID, posterID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET open = 0, updated_at = ? WHERE id = ? AND poster_id = ?`,
		formatTime(time.Now().UTC()), jobID, posterID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CreateJobApplication inserts an application.
// Returns store.ErrAlreadyExists if the applicant already applied.
func (s *Store) CreateJobApplication(ctx context.Context, a *domain.JobApplication) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO job_applications (id, job_id, applicant_id, cover_note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID,
		a.JobID,
		a.ApplicantID,
		nullString(a.CoverNote),
		formatTime(a.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ListJobApplications returns a job's applications oldest-first, each joined
// with the applicant's public profile. Poster-only; the scoping happens in
// the service layer.
func (s *Store) ListJobApplications(ctx context.Context, jobID string) ([]*domain.JobApplication, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.job_id, a.applicant_id, a.cover_note, a.created_at,
		       u.username, u.display_name, u.avatar_path
		FROM job_applications a
		JOIN users u ON u.id = a.applicant_id
		WHERE a.job_id = ?
		ORDER BY a.created_at ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*domain.JobApplication
	for rows.Next() {
		var a domain.JobApplication
		var coverNote sql.NullString
		var createdAt string
		var username, displayName string
		var avatarPath sql.NullString
		if err := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &coverNote, &createdAt,
			&username, &displayName, &avatarPath); err != nil {
			return nil, err
		}
		a.CoverNote = coverNote.String
		a.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		a.Applicant = &domain.Profile{
			ID:          a.ApplicantID,
			Username:    username,
			DisplayName: displayName,
			AvatarPath:  avatarPath.String,
		}
		apps = append(apps, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if apps == nil {
		apps = []*domain.JobApplication{}
	}
	return apps, nil
}

// HasApplied reports whether the user already applied to the job.
func (s *Store) HasApplied(ctx context.Context, jobID, applicantID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM job_applications WHERE job_id = ? AND applicant_id = ?`,
		jobID, applicantID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
