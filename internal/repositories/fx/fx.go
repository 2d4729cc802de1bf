package fx

import (
	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories/history"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories/media"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories/post"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories/profile"
)

var Module = fx.Options(
	profile.Module,
	post.Module,
	media.Module,
	history.Module,
	fx.Provide(
		fx.Annotate(
			repositories.NewPgxTxManager,
			fx.As(new(repositories.TxManager)),
		),
	),
)
