package profile

import (
	"context"
	"errors"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
)

var ErrNotFound = errors.New("profile not found")

//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=mocks/mock.go
type Repository interface {
	// Upsert inserts the profile if absent by instagram id, otherwise
	// overwrites the mutable fields. The identity key is never duplicated.
	Upsert(ctx context.Context, profile domain.Profile) error

	// GetByID returns the profile with the given instagram id
	GetByID(ctx context.Context, instagramID string) (*domain.Profile, error)

	// GetByUsername returns the profile with the given username
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)
}
