package post

import (
	"context"
	"errors"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
)

var (
	ErrAlreadyExists = errors.New("post already exists")
	ErrNotFound      = errors.New("post not found")
)

//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go
type Repository interface {
	// Create inserts a new post. Returns ErrAlreadyExists when the shortcode
	// is already present; post content is never overwritten.
	Create(ctx context.Context, post domain.Post) error

	// UpdateEngagement refreshes the engagement counters of an existing
	// post. It is a no-op when the shortcode is absent.
	UpdateEngagement(ctx context.Context, shortcode string, likeCount, commentCount int) error

	// MarkDownloaded flips the download flag of a post
	MarkDownloaded(ctx context.Context, shortcode string) error

	// GetByShortcode returns the post with the given shortcode
	GetByShortcode(ctx context.Context, shortcode string) (*domain.Post, error)
}
