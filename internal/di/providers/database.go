package providers

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/realtime"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/viewgate"
)

// RealtimeManagerHandle wraps the SSE manager with its context for lifecycle
// management.
type RealtimeManagerHandle struct {
	*realtime.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *RealtimeManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideRealtimeManager provides the server-sent events manager.
func ProvideRealtimeManager(i do.Injector) (*RealtimeManagerHandle, error) {
	log := do.MustInvoke[*slog.Logger](i)

	manager := realtime.NewManager(log)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("Realtime manager started")

	return &RealtimeManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	dbPath := cfg.DatabasePath()
	st, err := sqlite.Open(dbPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: st}, nil
}

// ViewGateHandle wraps the view gate with shutdown capability.
type ViewGateHandle struct {
	*viewgate.Gate
}

// Shutdown implements do.Shutdownable.
func (h *ViewGateHandle) Shutdown() error {
	return h.Close()
}

// ProvideViewGate provides the anonymous view debounce gate.
func ProvideViewGate(i do.Injector) (*ViewGateHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	gate, err := viewgate.Open(cfg.ViewGatePath(), viewgate.DefaultWindow, log)
	if err != nil {
		return nil, err
	}

	log.Info("View gate opened", "path", cfg.ViewGatePath())

	return &ViewGateHandle{Gate: gate}, nil
}
