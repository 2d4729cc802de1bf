package telegramimpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	"github.com/Jeremy-Gitau/MediaSnap/internal/notifier"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/config"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// Impl sends run summaries to a Telegram chat. When no bot token is
// configured it degrades to a no-op so the pipeline runs standalone.
type Impl struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger logger.Logger
}

var _ notifier.Notifier = (*Impl)(nil)

func New(opts Opts) (*Impl, error) {
	log := opts.Logger.WithComponent("TelegramNotifier")

	if opts.Config.Telegram.Token == "" {
		log.Info("No telegram token configured, summary notifications disabled")
		return &Impl{logger: log}, nil
	}

	bot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Info("Telegram notifier ready", "bot", bot.Self.UserName)

	return &Impl{
		bot:    bot,
		chatID: opts.Config.Telegram.User,
		logger: log,
	}, nil
}

func (i *Impl) NotifySummary(_ context.Context, summary *domain.FetchSummary) error {
	if i.bot == nil {
		return nil
	}

	msg := tgbotapi.NewMessage(i.chatID, formatSummary(summary))
	if _, err := i.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send summary notification: %w", err)
	}
	return nil
}

func formatSummary(s *domain.FetchSummary) string {
	var b strings.Builder

	status := "✅ done"
	switch s.Outcome {
	case domain.StageFailed:
		status = "❌ failed"
	case domain.StageCancelled:
		status = "⚠️ cancelled"
	}

	fmt.Fprintf(&b, "Fetch %s for @%s\n", status, s.Username)
	fmt.Fprintf(&b, "Posts: %d found, %d new, %d known\n", s.TotalPostsFound, s.NewPosts, s.ExistingPosts)
	fmt.Fprintf(&b, "Media: %d downloaded, %d failed\n", s.MediaDownloaded, s.MediaFailed)
	fmt.Fprintf(&b, "Took %s", s.CompletedAt.Sub(s.StartedAt).Round(time.Second))
	if len(s.Errors) > 0 {
		fmt.Fprintf(&b, "\nFirst error: %s", s.Errors[0])
	}
	return b.String()
}
