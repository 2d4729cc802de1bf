package domain

import "time"

// FetchSummary is the single terminal outcome of an acquisition run.
type FetchSummary struct {
	Username        string
	ProfileID       string
	Outcome         Stage // StageDone, StageFailed or StageCancelled
	TotalPostsFound int
	NewPosts        int
	ExistingPosts   int
	MediaDownloaded int
	MediaFailed     int
	Errors          []string
	DownloadPath    string
	StartedAt       time.Time
	CompletedAt     time.Time
}

func (s *FetchSummary) Success() bool {
	return s.Outcome == StageDone
}

// DownloadHistory is the per-run audit row kept for the history view.
type DownloadHistory struct {
	ID           int
	Username     string
	TotalItems   int
	NewItems     int
	FailedItems  int
	Success      bool
	ErrorMessage string
	DownloadPath string
	StartedAt    time.Time
	CompletedAt  time.Time
}
