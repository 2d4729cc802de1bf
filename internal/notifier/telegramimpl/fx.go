package telegramimpl

import (
	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/internal/notifier"
)

var Module = fx.Module("telegram_notifier",
	fx.Provide(
		fx.Annotate(
			New,
			fx.As(new(notifier.Notifier)),
		),
	),
)
