package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/internal/acquisition"
	"github.com/Jeremy-Gitau/MediaSnap/internal/acquisition/acquisitionimpl"
	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	"github.com/Jeremy-Gitau/MediaSnap/internal/downloader"
	"github.com/Jeremy-Gitau/MediaSnap/internal/instagram/instagramimpl"
	"github.com/Jeremy-Gitau/MediaSnap/internal/maintenance"
	_ "github.com/Jeremy-Gitau/MediaSnap/internal/migrations"
	"github.com/Jeremy-Gitau/MediaSnap/internal/notifier"
	"github.com/Jeremy-Gitau/MediaSnap/internal/notifier/telegramimpl"
	"github.com/Jeremy-Gitau/MediaSnap/internal/pgx"
	"github.com/Jeremy-Gitau/MediaSnap/internal/ratelimit"
	repositories "github.com/Jeremy-Gitau/MediaSnap/internal/repositories/fx"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/config"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

var App = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		maintenance.New,
	),
	ratelimit.Module,
	instagramimpl.Module,
	downloader.Module,
	repositories.Module,
	telegramimpl.Module,
	acquisitionimpl.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

// migrate applies the embedded schema migrations before anything touches the
// pool.
func migrate(c *config.Config, log logger.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres",
		fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
			c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
		),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info("Schema migrations applied")
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config,
	acqClient acquisition.Client, notify notifier.Notifier, janitor *maintenance.Janitor) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg)

			if err := janitor.Start(runCtx); err != nil {
				return err
			}

			go fetchConfiguredUsers(runCtx, log, cfg, acqClient, notify)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return janitor.Stop()
		},
	})
}

// fetchConfiguredUsers runs the pipeline once for every username listed in
// the configuration, sequentially. Runs are serialized by design; the rate
// limiter and the single-flight guard make parallel fetches pointless.
func fetchConfiguredUsers(ctx context.Context, log logger.Logger, cfg *config.Config,
	acqClient acquisition.Client, notify notifier.Notifier) {
	usernames := splitUsernames(cfg.Instagram.UsersFetch)
	if len(usernames) == 0 {
		log.Info("No usernames configured, waiting for nothing to do")
		return
	}

	for _, username := range usernames {
		if ctx.Err() != nil {
			return
		}

		summary, err := acqClient.Fetch(ctx, username, func(event domain.ProgressEvent) {
			log.Debug("Progress",
				"username", event.Username,
				"stage", string(event.Stage),
				"current", event.Current,
				"total", event.Total,
			)
		})
		if err != nil {
			log.Error("Acquisition run failed", "username", username, "error", err)
		}
		if summary == nil {
			continue
		}
		if notifyErr := notify.NotifySummary(ctx, summary); notifyErr != nil {
			log.Error("Failed to deliver summary notification", "username", username, "error", notifyErr)
		}
	}
}

func splitUsernames(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Error("Failed to write health check response", "error", err)
		}
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start", "error", err)
	}
}
