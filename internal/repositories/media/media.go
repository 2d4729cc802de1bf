package media

import (
	"context"
	"errors"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
)

var ErrNotFound = errors.New("media item not found")

//go:generate go run go.uber.org/mock/mockgen -source=media.go -destination=mocks/mock.go
type Repository interface {
	// CreateBatch inserts the media items of one post, preserving source
	// ordering via the ordinal column. Returns the inserted items with their
	// assigned ids.
	CreateBatch(ctx context.Context, shortcode string, items []domain.MediaItem) ([]domain.MediaItem, error)

	// MarkDownloaded sets the download flag and local path. Returns
	// ErrNotFound when the id is absent.
	MarkDownloaded(ctx context.Context, id int64, localPath string) error

	// ListPending returns all undownloaded media of a profile, ordered by
	// post insertion order then ordinal.
	ListPending(ctx context.Context, profileID string) ([]domain.MediaItem, error)
}
