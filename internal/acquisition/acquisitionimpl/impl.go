package acquisitionimpl

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/internal/acquisition"
	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	"github.com/Jeremy-Gitau/MediaSnap/internal/downloader"
	"github.com/Jeremy-Gitau/MediaSnap/internal/instagram"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories/history"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories/media"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories/post"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories/profile"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/config"
	apperrors "github.com/Jeremy-Gitau/MediaSnap/pkg/errors"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

type Opts struct {
	fx.In

	Config      *config.Config
	Logger      logger.Logger
	Scraper     instagram.Client
	Downloader  downloader.Downloader
	TxManager   repositories.TxManager
	ProfileRepo profile.Repository
	PostRepo    post.Repository
	MediaRepo   media.Repository
	HistoryRepo history.Repository
}

type Impl struct {
	scraper     instagram.Client
	downloader  downloader.Downloader
	txManager   repositories.TxManager
	profileRepo profile.Repository
	postRepo    post.Repository
	mediaRepo   media.Repository
	historyRepo history.Repository
	downloadDir string
	logger      logger.Logger

	running atomic.Bool
}

func New(opts Opts) *Impl {
	return &Impl{
		scraper:     opts.Scraper,
		downloader:  opts.Downloader,
		txManager:   opts.TxManager,
		profileRepo: opts.ProfileRepo,
		postRepo:    opts.PostRepo,
		mediaRepo:   opts.MediaRepo,
		historyRepo: opts.HistoryRepo,
		downloadDir: opts.Config.Downloader.Dir,
		logger:      opts.Logger.WithComponent("Acquisition"),
	}
}

var _ acquisition.Client = (*Impl)(nil)

func (i *Impl) Fetch(ctx context.Context, username string, onProgress acquisition.ProgressFunc) (*domain.FetchSummary, error) {
	if !i.running.CompareAndSwap(false, true) {
		return nil, acquisition.ErrAlreadyRunning
	}
	defer i.running.Store(false)

	run := &run{
		username:   username,
		onProgress: onProgress,
		summary: &domain.FetchSummary{
			Username:  username,
			Outcome:   domain.StageIdle,
			StartedAt: time.Now(),
		},
	}
	i.logger.Info("Starting acquisition run", "username", username)

	err := i.execute(ctx, run)
	run.summary.CompletedAt = time.Now()

	switch {
	case err == nil:
		run.transition(domain.StageDone, "run complete")
	case ctx.Err() != nil:
		run.transition(domain.StageCancelled, "run cancelled")
		run.fail(err)
	default:
		run.transition(domain.StageFailed, err.Error())
		run.fail(err)
	}

	i.recordHistory(ctx, run)
	i.logger.Info("Acquisition run finished",
		"username", username,
		"outcome", string(run.summary.Outcome),
		"new_posts", run.summary.NewPosts,
		"media_downloaded", run.summary.MediaDownloaded,
		"media_failed", run.summary.MediaFailed,
	)
	return run.summary, err
}

func (i *Impl) execute(ctx context.Context, run *run) error {
	run.transition(domain.StageFetching, "fetching profile")
	prof, err := i.scraper.FetchProfile(ctx, run.username)
	if err != nil {
		return err
	}
	run.summary.ProfileID = prof.InstagramID
	run.summary.TotalPostsFound = len(prof.Posts)

	run.transition(domain.StageReconciling, "reconciling with storage")
	if err := i.reconcile(ctx, run, prof); err != nil {
		return err
	}

	pending, err := i.mediaRepo.ListPending(ctx, prof.InstagramID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to list pending media: %v", err))
	}
	if len(pending) == 0 {
		run.transition(domain.StageSummarizing, "nothing to download")
		return nil
	}

	run.transitionWithProgress(domain.StageDownloading, "downloading media", 0, len(pending))
	if err := i.downloadPending(ctx, run, pending); err != nil {
		return err
	}

	run.transition(domain.StageSummarizing, "summarizing")
	return nil
}

// reconcile upserts the profile and inserts the new posts with their media
// in one transaction. Existing posts only get their engagement counters
// refreshed; their content is never overwritten.
func (i *Impl) reconcile(ctx context.Context, run *run, prof *domain.Profile) error {
	err := i.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := i.profileRepo.Upsert(txCtx, *prof); err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}

		for _, p := range prof.Posts {
			createErr := i.postRepo.Create(txCtx, p)
			switch {
			case createErr == nil:
				run.summary.NewPosts++
				if _, err := i.mediaRepo.CreateBatch(txCtx, p.Shortcode, p.MediaItems); err != nil {
					return fmt.Errorf("failed to insert media for post %s: %w", p.Shortcode, err)
				}
			case apperrors.Is(createErr, post.ErrAlreadyExists):
				run.summary.ExistingPosts++
				if err := i.postRepo.UpdateEngagement(txCtx, p.Shortcode, p.LikeCount, p.CommentCount); err != nil {
					return fmt.Errorf("failed to refresh post %s: %w", p.Shortcode, err)
				}
			default:
				return fmt.Errorf("failed to insert post %s: %w", p.Shortcode, createErr)
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, err.Error())
	}
	return nil
}

func (i *Impl) downloadPending(ctx context.Context, run *run, pending []domain.MediaItem) error {
	jobs := make([]downloader.Job, 0, len(pending))
	// Posts are marked downloaded once none of their media is pending.
	remaining := make(map[string]int, len(pending))
	for _, item := range pending {
		jobs = append(jobs, downloader.Job{
			MediaID: item.ID,
			URL:     item.URL,
			Dest:    i.mediaPath(run.username, item),
		})
		remaining[item.PostShortcode]++
	}
	shortcodeByID := make(map[int64]string, len(pending))
	for _, item := range pending {
		shortcodeByID[item.ID] = item.PostShortcode
	}

	run.summary.DownloadPath = filepath.Join(i.downloadDir, run.username)
	results := i.downloader.DownloadAll(ctx, jobs)

	done := 0
	for _, res := range results {
		done++
		if res.Err != nil {
			run.summary.MediaFailed++
			run.fail(fmt.Errorf("media %d: %w", res.Job.MediaID, res.Err))
			continue
		}

		if err := i.mediaRepo.MarkDownloaded(ctx, res.Job.MediaID, res.Path); err != nil {
			run.summary.MediaFailed++
			run.fail(apperrors.Wrap(apperrors.ErrPersistence,
				fmt.Sprintf("failed to mark media %d downloaded: %v", res.Job.MediaID, err)))
			continue
		}
		run.summary.MediaDownloaded++
		run.transitionWithProgress(domain.StageDownloading, "downloading media", done, len(jobs))

		shortcode := shortcodeByID[res.Job.MediaID]
		remaining[shortcode]--
		if remaining[shortcode] == 0 {
			if err := i.postRepo.MarkDownloaded(ctx, shortcode); err != nil {
				run.fail(apperrors.Wrap(apperrors.ErrPersistence,
					fmt.Sprintf("failed to mark post %s downloaded: %v", shortcode, err)))
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (i *Impl) mediaPath(username string, item domain.MediaItem) string {
	name := fmt.Sprintf("%s_%d.%s", item.PostShortcode, item.Ordinal, item.Ext())
	return filepath.Join(i.downloadDir, username, name)
}

// recordHistory persists the run outcome. Cancellation of the run context
// must not lose the audit row, so the write uses a detached context.
func (i *Impl) recordHistory(ctx context.Context, run *run) {
	s := run.summary
	entry := domain.DownloadHistory{
		Username:     s.Username,
		TotalItems:   s.MediaDownloaded + s.MediaFailed,
		NewItems:     s.NewPosts,
		FailedItems:  s.MediaFailed,
		Success:      s.Success(),
		DownloadPath: s.DownloadPath,
		StartedAt:    s.StartedAt,
		CompletedAt:  s.CompletedAt,
	}
	if len(s.Errors) > 0 {
		entry.ErrorMessage = s.Errors[0]
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := i.historyRepo.Create(writeCtx, entry); err != nil {
		i.logger.Error("Failed to record run history", "username", s.Username, "error", err)
	}
}

// run carries the per-invocation state machine.
type run struct {
	username   string
	onProgress acquisition.ProgressFunc
	summary    *domain.FetchSummary
}

func (r *run) transition(stage domain.Stage, message string) {
	r.transitionWithProgress(stage, message, 0, 0)
}

func (r *run) transitionWithProgress(stage domain.Stage, message string, current, total int) {
	if r.summary.Outcome.Terminal() {
		return
	}
	r.summary.Outcome = stage
	if r.onProgress != nil {
		r.onProgress(domain.ProgressEvent{
			Username: r.username,
			Stage:    stage,
			Message:  message,
			Current:  current,
			Total:    total,
		})
	}
}

func (r *run) fail(err error) {
	if err == nil {
		return
	}
	r.summary.Errors = append(r.summary.Errors, err.Error())
}
