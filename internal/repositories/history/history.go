package history

import (
	"context"
	"time"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=history.go -destination=mocks/mock.go
type Repository interface {
	// Create records the outcome of one acquisition run
	Create(ctx context.Context, entry domain.DownloadHistory) error

	// ListRecent returns the most recent runs, newest first
	ListRecent(ctx context.Context, count int) ([]*domain.DownloadHistory, error)

	// CleanupOldRecords deletes history rows older than the given duration
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
