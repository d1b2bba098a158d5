package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/sheets"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, validator, log), nil
}

// ProvideFollowService provides the follow graph service.
func ProvideFollowService(i do.Injector) (*service.FollowService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	rt := do.MustInvoke[*RealtimeManagerHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewFollowService(storeHandle.Store, rt.Manager, log), nil
}

// ProvideArticleService provides the article service.
func ProvideArticleService(i do.Injector) (*service.ArticleService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	rt := do.MustInvoke[*RealtimeManagerHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewArticleService(storeHandle.Store, indexHandle.Index, validator, rt.Manager, log), nil
}

// ProvideEngagementService provides the engagement service.
func ProvideEngagementService(i do.Injector) (*service.EngagementService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	gateHandle := do.MustInvoke[*ViewGateHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	rt := do.MustInvoke[*RealtimeManagerHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewEngagementService(storeHandle.Store, gateHandle.Gate, validator, rt.Manager, log, cfg.Server.PublicURL), nil
}

// ProvideNotificationService provides the notification service.
func ProvideNotificationService(i do.Injector) (*service.NotificationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	rt := do.MustInvoke[*RealtimeManagerHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewNotificationService(storeHandle.Store, rt.Manager, log), nil
}

// ProvideProfileService provides the profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	followService := do.MustInvoke[*service.FollowService](i)
	buckets := do.MustInvoke[*StorageBuckets](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewProfileService(storeHandle.Store, followService, buckets.Avatars, validator, log), nil
}

// ProvideJobService provides the job board service.
func ProvideJobService(i do.Injector) (*service.JobService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewJobService(storeHandle.Store, validator, log), nil
}

// ProvideEbookService provides the ebook service.
func ProvideEbookService(i do.Injector) (*service.EbookService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sheetsClient := do.MustInvoke[*sheets.Client](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewEbookService(storeHandle.Store, sheetsClient, validator, log, cfg.Server.PublicURL), nil
}
