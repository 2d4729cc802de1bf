package instagram

import (
	"context"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
)

// Client fetches a normalized profile snapshot for an identifier. The
// implementation composes rate limiting, retry and strategy fallback; a
// returned error is always classified with the pkg/errors taxonomy.
//
//go:generate go run go.uber.org/mock/mockgen -source=instagram.go -destination=mocks/mock.go
type Client interface {
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
}

// Strategy is one extraction method. Both variants must tolerate partially
// missing optional fields and produce the same normalized shape; a missing
// required field is a malformed-response failure, never a partial result.
type Strategy interface {
	Name() string
	FetchProfile(ctx context.Context, username string) (*domain.Profile, error)
}
