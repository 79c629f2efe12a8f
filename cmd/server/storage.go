package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/repo/filestore"
	"github.com/fairyhunter13/ai-mock-interview/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-mock-interview/internal/app"
	"github.com/fairyhunter13/ai-mock-interview/internal/config"
	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

// storage groups the repositories of the selected backend.
type storage struct {
	name      string
	pinger    app.Pinger
	sessions  domain.SessionRepository
	responses domain.ResponseRepository
	reports   domain.ReportRepository
	users     domain.UserRepository
	closeFn   func()
}

func (s storage) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

func openStorage(ctx context.Context, cfg config.Config) (storage, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DBURL, cfg.DBConnectWait)
		if err != nil {
			return storage{}, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return storage{}, err
		}
		if cfg.DataRetentionDays > 0 {
			cleanup := postgres.NewCleanupService(postgres.PoolBeginner{Pool: pool}, cfg.DataRetentionDays)
			go cleanup.RunPeriodic(ctx, cfg.CleanupInterval)
			slog.Info("cleanup service started",
				slog.Int("retention_days", cfg.DataRetentionDays),
				slog.Duration("interval", cfg.CleanupInterval))
		}
		return storage{
			name:      "db",
			pinger:    pool,
			sessions:  postgres.NewSessionRepo(pool),
			responses: postgres.NewResponseRepo(pool),
			reports:   postgres.NewReportRepo(pool),
			users:     postgres.NewUserRepo(pool),
			closeFn:   pool.Close,
		}, nil
	case config.StorageFile:
		fs, err := filestore.Open(cfg.DataDir)
		if err != nil {
			return storage{}, err
		}
		return storage{
			name:      "storage",
			pinger:    fs,
			sessions:  fs.Sessions(),
			responses: fs.Responses(),
			reports:   fs.Reports(),
			users:     fs.Users(),
		}, nil
	}
	return storage{}, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
