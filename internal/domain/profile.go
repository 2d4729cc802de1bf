package domain

import "time"

// Profile is the normalized result of one extraction, regardless of which
// strategy produced it.
type Profile struct {
	InstagramID    string // Platform-assigned immutable id
	Username       string
	FullName       string
	Biography      string
	ProfilePicURL  string
	FollowerCount  int
	FollowingCount int
	PostCount      int
	IsPrivate      bool
	IsVerified     bool
	FetchedAt      time.Time
	Posts          []Post
}

// Post content is immutable once observed: only engagement counters and the
// download flag may change on later fetches.
type Post struct {
	Shortcode    string
	ProfileID    string
	Typename     string // GraphImage, GraphVideo, GraphSidecar
	Caption      string
	TakenAt      time.Time
	LikeCount    int
	CommentCount int
	DisplayURL   string
	IsVideo      bool
	VideoURL     string
	IsDownloaded bool
	CreatedAt    time.Time
	MediaItems   []MediaItem
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaItem is a single downloadable asset. Ordinal preserves source order
// within the post and is unique per post; single-media posts carry one item
// at ordinal 0.
type MediaItem struct {
	ID            int64
	PostShortcode string
	URL           string
	MediaType     MediaType
	Ordinal       int
	LocalPath     string
	IsDownloaded  bool
	CreatedAt     time.Time
}

// Ext returns the file extension used when persisting this item.
func (m MediaItem) Ext() string {
	if m.MediaType == MediaTypeVideo {
		return "mp4"
	}
	return "jpg"
}
