package downloader

import (
	"context"
	"time"
)

// Job is one media file to fetch. Dest is the final path; the worker writes
// to a temporary sibling first and renames on success, so Dest either holds
// a complete file or does not exist.
type Job struct {
	MediaID int64
	URL     string
	Dest    string
}

// Result reports the outcome of one job.
type Result struct {
	Job      Job
	Path     string
	Size     int64
	Duration time.Duration
	// Skipped is set when Dest already existed and the fetch was elided.
	Skipped bool
	Err     error
}

// Downloader fetches a batch of media files with bounded concurrency.
//
//go:generate go run go.uber.org/mock/mockgen -source=downloader.go -destination=mocks/mock.go
type Downloader interface {
	DownloadAll(ctx context.Context, jobs []Job) []Result
}
