package acquisitionimpl

import (
	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/internal/acquisition"
)

var Module = fx.Module("acquisition",
	fx.Provide(
		fx.Annotate(
			New,
			fx.As(new(acquisition.Client)),
		),
	),
)
