package notifier

import (
	"context"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
)

// Notifier delivers run summaries to an external channel. Delivery failures
// never affect the run outcome.
//
//go:generate go run go.uber.org/mock/mockgen -source=notifier.go -destination=mocks/mock.go
type Notifier interface {
	NotifySummary(ctx context.Context, summary *domain.FetchSummary) error
}
