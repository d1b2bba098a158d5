package providers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/api"
	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	rt := do.MustInvoke[*RealtimeManagerHandle](i)
	buckets := do.MustInvoke[*StorageBuckets](i)
	log := do.MustInvoke[*slog.Logger](i)

	services := &api.Services{
		Auth:         do.MustInvoke[*service.AuthService](i),
		Article:      do.MustInvoke[*service.ArticleService](i),
		Engagement:   do.MustInvoke[*service.EngagementService](i),
		Follow:       do.MustInvoke[*service.FollowService](i),
		Notification: do.MustInvoke[*service.NotificationService](i),
		Profile:      do.MustInvoke[*service.ProfileService](i),
		Job:          do.MustInvoke[*service.JobService](i),
		Ebook:        do.MustInvoke[*service.EbookService](i),
	}

	storage := &api.StorageBuckets{
		Covers:  buckets.Covers,
		Avatars: buckets.Avatars,
		Ebooks:  buckets.Ebooks,
	}

	handler := api.NewServer(storeHandle.Store, services, storage, rt.Manager, cfg.Limits.WriteRPS, cfg.Limits.WriteBurst, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
