package logger

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Logger is the structured logger used across the application. Arguments are
// slog-style alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithComponent(name string) Logger
}

type Opts struct {
	Env       string
	SentryUrl string
}

type Impl struct {
	l *slog.Logger
}

var _ Logger = (*Impl)(nil)

// New builds the logger: a zerolog backend (console writer in development,
// JSON otherwise), fanned out to Sentry for error-level records when a DSN
// is configured.
func New(opts Opts) *Impl {
	var zl zerolog.Logger
	if opts.Env == "development" || opts.Env == "" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	} else {
		zl = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	zerologHandler := slogzerolog.Option{
		Level:  slog.LevelDebug,
		Logger: &zl,
	}.NewZerologHandler()

	handler := zerologHandler
	if opts.SentryUrl != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryUrl,
			Environment: opts.Env,
		}); err != nil {
			zl.Warn().Err(err).Msg("Failed to initialize sentry, continuing without it")
		} else {
			handler = slogmulti.Fanout(
				zerologHandler,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
			)
		}
	}

	return &Impl{l: slog.New(handler)}
}

func (i *Impl) Debug(msg string, args ...any) {
	i.l.Debug(msg, args...)
}

func (i *Impl) Info(msg string, args ...any) {
	i.l.Info(msg, args...)
}

func (i *Impl) Warn(msg string, args ...any) {
	i.l.Warn(msg, args...)
}

func (i *Impl) Error(msg string, args ...any) {
	i.l.Error(msg, args...)
}

func (i *Impl) WithComponent(name string) Logger {
	return &Impl{l: i.l.With("component", name)}
}

// Printf satisfies fx.Printer so the fx app can log through us.
func (i *Impl) Printf(format string, args ...any) {
	i.l.Debug(fmt.Sprintf(format, args...))
}
