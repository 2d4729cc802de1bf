package acquisition

import (
	"context"
	"errors"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
)

// ErrAlreadyRunning is returned when a fetch is requested while another run
// is still in flight. Runs are strictly serialized.
var ErrAlreadyRunning = errors.New("an acquisition run is already in progress")

// ProgressFunc receives stage transitions and download progress. It may be
// nil; it must not block.
type ProgressFunc func(event domain.ProgressEvent)

// Client coordinates one full acquisition run: fetch the profile, reconcile
// it against storage, download the pending media and record the outcome.
//
//go:generate go run go.uber.org/mock/mockgen -source=acquisition.go -destination=mocks/mock.go
type Client interface {
	// Fetch runs the pipeline for one username. A summary is returned for
	// every run that started, terminal outcome included; the error carries
	// the cause when the outcome is not StageDone.
	Fetch(ctx context.Context, username string, onProgress ProgressFunc) (*domain.FetchSummary, error)
}
