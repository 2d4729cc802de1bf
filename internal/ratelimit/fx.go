package ratelimit

import (
	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/pkg/config"
)

var Module = fx.Module("ratelimit",
	fx.Provide(
		fx.Annotate(
			func(cfg *config.Config) *IntervalLimiter {
				return NewIntervalLimiter(cfg.Scraper.RequestDelay, cfg.Scraper.RequestJitter)
			},
			fx.As(new(Limiter)),
		),
	),
)
