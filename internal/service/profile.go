package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/storage"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// ProfileUpdate is the validated input for editing one's own profile.
type ProfileUpdate struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=80"`
	Bio         string `json:"bio,omitempty" validate:"max=500"`
}

// ProfileView is a public profile with its follow state for the viewer.
type ProfileView struct {
	domain.Profile
	Counts domain.FollowCounts `json:"counts"`
}

// ProfileService serves public profiles and profile edits.
type ProfileService struct {
	store     *sqlite.Store
	follows   *FollowService
	avatars   *storage.Bucket
	validator *validation.Validator
	logger    *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *sqlite.Store, follows *FollowService, avatars *storage.Bucket, validator *validation.Validator, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:     store,
		follows:   follows,
		avatars:   avatars,
		validator: validator,
		logger:    logger,
	}
}

// GetByUsername returns a public profile with follow counts as seen by the
// viewer. An empty viewerID means anonymous.
func (s *ProfileService) GetByUsername(ctx context.Context, username, viewerID string) (*ProfileView, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, err
	}

	counts, err := s.follows.Counts(ctx, user.ID, viewerID)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		Profile: user.AsProfile(),
		Counts:  *counts,
	}, nil
}

// Update edits the caller's display name and bio.
func (s *ProfileService) Update(ctx context.Context, userID string, update *ProfileUpdate) (*domain.User, error) {
	if err := s.validator.Validate(update); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = strings.TrimSpace(update.DisplayName)
	user.Bio = strings.TrimSpace(update.Bio)
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

// SetAvatar stores new avatar image bytes and points the caller's profile at
// them. The previous avatar file is removed after the profile update lands.
func (s *ProfileService) SetAvatar(ctx context.Context, userID string, imgData []byte, ext string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s-%d%s", userID, time.Now().UnixMilli(), ext)
	if err := s.avatars.Save(key, imgData); err != nil {
		return nil, fmt.Errorf("saving avatar: %w", err)
	}

	previous := user.AvatarPath
	user.AvatarPath = s.avatars.StoragePath(key)
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Don't leave the orphaned upload around.
		if cleanupErr := s.avatars.Delete(key); cleanupErr != nil {
			s.logger.Warn("failed to clean up avatar after update error", "key", key, "error", cleanupErr)
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	if previous != "" {
		if oldKey, ok := strings.CutPrefix(previous, storage.BucketAvatars+"/"); ok {
			if err := s.avatars.Delete(oldKey); err != nil {
				s.logger.Warn("failed to remove previous avatar", "key", oldKey, "error", err)
			}
		}
	}

	return user, nil
}
