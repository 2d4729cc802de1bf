package instagramimpl

import (
	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/internal/instagram"
)

var Module = fx.Module("instagram",
	fx.Provide(
		fx.Annotate(
			New,
			fx.As(new(instagram.Client)),
		),
	),
)
