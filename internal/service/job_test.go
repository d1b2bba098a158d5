package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
)

func validJobDraft() *domain.JobDraft {
	return &domain.JobDraft{
		Title:       "Staff Writer",
		Company:     "Inkwell Press",
		Description: strings.Repeat("Write compelling long-form essays for our magazine. ", 3),
		Location:    "Remote",
		SalaryMin:   50000,
		SalaryMax:   70000,
	}
}

func TestPostAndListJobs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	poster := env.createUser(t, "maya")

	job, err := env.jobs.Post(ctx, poster.ID, validJobDraft())
	require.NoError(t, err)
	assert.True(t, job.Open)

	jobs, err := env.jobs.ListOpen(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)
}

func TestJobDraftSalaryOrdering(t *testing.T) {
	env := newTestEnv(t)
	poster := env.createUser(t, "maya")

	draft := validJobDraft()
	draft.SalaryMin = 90000
	draft.SalaryMax = 50000
	_, err := env.jobs.Post(context.Background(), poster.ID, draft)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestCloseJobHidesItFromListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	poster := env.createUser(t, "maya")
	other := env.createUser(t, "sam")

	job, err := env.jobs.Post(ctx, poster.ID, validJobDraft())
	require.NoError(t, err)

	err = env.jobs.Close(ctx, job.ID, other.ID)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	require.NoError(t, env.jobs.Close(ctx, job.ID, poster.ID))
	// Closing again is a no-op.
	require.NoError(t, env.jobs.Close(ctx, job.ID, poster.ID))

	jobs, err := env.jobs.ListOpen(ctx, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// The poster still sees it in their own list.
	mine, err := env.jobs.ListByPoster(ctx, poster.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestApplyRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	poster := env.createUser(t, "maya")
	applicant := env.createUser(t, "sam")

	job, err := env.jobs.Post(ctx, poster.ID, validJobDraft())
	require.NoError(t, err)

	_, err = env.jobs.Apply(ctx, job.ID, poster.ID, "")
	assert.True(t, errors.Is(err, errors.ErrValidation), "poster cannot apply to their own job")

	application, err := env.jobs.Apply(ctx, job.ID, applicant.ID, "I have ten years of experience.")
	require.NoError(t, err)
	assert.Equal(t, applicant.ID, application.ApplicantID)

	_, err = env.jobs.Apply(ctx, job.ID, applicant.ID, "again")
	assert.True(t, errors.Is(err, errors.ErrAlreadyExists))

	applied, err := env.jobs.HasApplied(ctx, job.ID, applicant.ID)
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestApplyToClosedJob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	poster := env.createUser(t, "maya")
	applicant := env.createUser(t, "sam")

	job, err := env.jobs.Post(ctx, poster.ID, validJobDraft())
	require.NoError(t, err)
	require.NoError(t, env.jobs.Close(ctx, job.ID, poster.ID))

	_, err = env.jobs.Apply(ctx, job.ID, applicant.ID, "")
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestApplicationsVisibleOnlyToPoster(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	poster := env.createUser(t, "maya")
	applicant := env.createUser(t, "sam")

	job, err := env.jobs.Post(ctx, poster.ID, validJobDraft())
	require.NoError(t, err)
	_, err = env.jobs.Apply(ctx, job.ID, applicant.ID, "Here is my note.")
	require.NoError(t, err)

	_, err = env.jobs.Applications(ctx, job.ID, applicant.ID)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	applications, err := env.jobs.Applications(ctx, job.ID, poster.ID)
	require.NoError(t, err)
	require.Len(t, applications, 1)
	require.NotNil(t, applications[0].Applicant)
	assert.Equal(t, "sam", applications[0].Applicant.Username)
}
