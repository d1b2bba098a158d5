package api

import (
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/storage"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth         *service.AuthService
	Article      *service.ArticleService
	Engagement   *service.EngagementService
	Follow       *service.FollowService
	Notification *service.NotificationService
	Profile      *service.ProfileService
	Job          *service.JobService
	Ebook        *service.EbookService
}

// StorageBuckets groups the upload buckets the API serves and writes.
type StorageBuckets struct {
	Covers  *storage.Bucket // Article and ebook cover images
	Avatars *storage.Bucket // Profile avatars
	Ebooks  *storage.Bucket // Ebook files
}
