// Package di provides dependency injection configuration for the Inkwell server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/di/providers"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/sheets"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)

	// Persistence and realtime
	do.Provide(injector, providers.ProvideRealtimeManager)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideViewGate)

	// Storage and search
	do.Provide(injector, providers.ProvideStorageBuckets)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Outbound integrations
	do.Provide(injector, providers.ProvideSheetsClient)
	do.Provide(injector, providers.ProvideValidator)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideFollowService)
	do.Provide(injector, providers.ProvideArticleService)
	do.Provide(injector, providers.ProvideEngagementService)
	do.Provide(injector, providers.ProvideNotificationService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideJobService)
	do.Provide(injector, providers.ProvideEbookService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is running.
// Invoking each provider triggers lazy initialization in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*slog.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.RealtimeManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.ViewGateHandle](injector)
	_ = do.MustInvoke[*providers.StorageBuckets](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*sheets.Client](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.FollowService](injector)
	_ = do.MustInvoke[*service.ArticleService](injector)
	_ = do.MustInvoke[*service.EngagementService](injector)
	_ = do.MustInvoke[*service.NotificationService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.JobService](injector)
	_ = do.MustInvoke[*service.EbookService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index if it came up empty but articles exist.
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
