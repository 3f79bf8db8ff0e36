// Package refresh keeps the local cache warm by re-reading the remote menu
// and profile on a schedule, so the app still has data when the store is
// unreachable.
package refresh

import (
	"context"
	"log/slog"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/menupilot/menupilot/internal/store"
)

// Service runs MenuStore.Refresh on a cron schedule.
type Service struct {
	store    *store.MenuStore
	schedule string
	cron     *robfigcron.Cron
}

// NewService creates a refresh Service. schedule uses cron syntax, including
// the @every shorthand.
func NewService(menuStore *store.MenuStore, schedule string) *Service {
	return &Service{
		store:    menuStore,
		schedule: schedule,
		cron:     robfigcron.New(),
	}
}

// Start arms the schedule, runs one refresh immediately, and blocks until ctx
// is cancelled.
func (s *Service) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.run(ctx) }); err != nil {
		return err
	}

	s.run(ctx)
	s.cron.Start()
	slog.Info("refresh: scheduled", "schedule", s.schedule)

	<-ctx.Done()
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		slog.Warn("refresh: jobs still running at shutdown")
	}
	return ctx.Err()
}

func (s *Service) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.store.Refresh(runCtx); err != nil {
		slog.Warn("refresh: failed", "err", err)
		return
	}
	slog.Debug("refresh: done", "took", time.Since(start))
}
