package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/internal/downloader"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories/history"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/config"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

const (
	interval         = 24 * time.Hour
	historyRetention = 90 * 24 * time.Hour
	tempFileMaxAge   = 24 * time.Hour
)

type Opts struct {
	fx.In

	Config      *config.Config
	Logger      logger.Logger
	HistoryRepo history.Repository
}

// Janitor periodically prunes old history rows and sweeps orphaned temporary
// files left behind by interrupted downloads.
type Janitor struct {
	cfg         *config.Config
	historyRepo history.Repository
	logger      logger.Logger

	scheduler gocron.Scheduler
}

func New(opts Opts) *Janitor {
	return &Janitor{
		cfg:         opts.Config,
		historyRepo: opts.HistoryRepo,
		logger:      opts.Logger.WithComponent("Maintenance"),
	}
}

func (j *Janitor) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			taskCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			j.runOnce(taskCtx)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}

	scheduler.Start()
	j.scheduler = scheduler
	j.logger.Info("Maintenance scheduler started", "interval", interval.String())
	return nil
}

func (j *Janitor) Stop() error {
	if j.scheduler == nil {
		return nil
	}
	return j.scheduler.Shutdown()
}

func (j *Janitor) runOnce(ctx context.Context) {
	deleted, err := j.historyRepo.CleanupOldRecords(ctx, historyRetention)
	if err != nil {
		j.logger.Error("Failed to prune old history rows", "error", err)
	} else if deleted > 0 {
		j.logger.Info("Pruned old history rows", "deleted", deleted)
	}

	removed := downloader.SweepStaleTempFiles(j.cfg.Downloader.Dir, tempFileMaxAge, j.logger)
	if removed > 0 {
		j.logger.Info("Swept stale temporary files", "removed", removed)
	}
}
