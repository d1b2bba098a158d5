package validation_test

import (
	"errors"
	"testing"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArticleDraft(t *testing.T) {
	v := validation.New()

	longContent := make([]byte, 120)
	for i := range longContent {
		longContent[i] = 'a'
	}

	t.Run("valid draft passes", func(t *testing.T) {
		draft := domain.ArticleDraft{
			Title:   "On the Craft of Revision",
			Content: string(longContent),
			Tags:    []string{"craft", "editing"},
		}
		assert.NoError(t, v.Validate(draft))
	})

	t.Run("short title fails", func(t *testing.T) {
		draft := domain.ArticleDraft{
			Title:   "Hi",
			Content: string(longContent),
		}
		err := v.Validate(draft)
		require.Error(t, err)

		var domainErr *domainerrors.Error
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

		details, ok := domainErr.Details.(map[string]string)
		require.True(t, ok)
		assert.Contains(t, details, "title")
		assert.NotContains(t, details, "content")
	})

	t.Run("short content fails", func(t *testing.T) {
		draft := domain.ArticleDraft{
			Title:   "A Reasonable Title",
			Content: "too short",
		}
		err := v.Validate(draft)
		require.Error(t, err)
	})

	t.Run("six tags fail on tag count only", func(t *testing.T) {
		draft := domain.ArticleDraft{
			Title:   "A Reasonable Title",
			Content: string(longContent),
			Tags:    []string{"a", "b", "c", "d", "e", "f"},
		}
		err := v.Validate(draft)
		require.Error(t, err)

		var domainErr *domainerrors.Error
		require.True(t, errors.As(err, &domainErr))
		details, ok := domainErr.Details.(map[string]string)
		require.True(t, ok)
		assert.Contains(t, details, "tags")
		assert.NotContains(t, details, "title")
		assert.NotContains(t, details, "content")
	})
}

func TestValidateJobDraft(t *testing.T) {
	v := validation.New()

	longDesc := make([]byte, 60)
	for i := range longDesc {
		longDesc[i] = 'd'
	}

	t.Run("salary range must be ordered", func(t *testing.T) {
		draft := domain.JobDraft{
			Title:       "Senior Copy Editor",
			Company:     "Inkwell Press",
			Description: string(longDesc),
			SalaryMin:   90000,
			SalaryMax:   60000,
		}
		err := v.Validate(draft)
		require.Error(t, err)
	})

	t.Run("valid job passes", func(t *testing.T) {
		draft := domain.JobDraft{
			Title:       "Senior Copy Editor",
			Company:     "Inkwell Press",
			Description: string(longDesc),
			SalaryMin:   60000,
			SalaryMax:   90000,
		}
		assert.NoError(t, v.Validate(draft))
	})
}
