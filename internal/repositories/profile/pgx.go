package profile

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	"github.com/Jeremy-Gitau/MediaSnap/internal/repositories"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

type Pgx struct {
	db     repositories.Querier
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		db:     pg,
		logger: logger.WithComponent("ProfileRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// querier resolves to the transaction installed by the TxManager, or the
// pool outside a transaction scope.
func (p *Pgx) querier(ctx context.Context) repositories.Querier {
	if q := repositories.QuerierFromContext(ctx); q != nil {
		return q
	}
	return p.db
}

func (p *Pgx) Upsert(ctx context.Context, profile domain.Profile) error {
	query, args, err := repositories.SqBuilder.
		Insert("profiles").
		Columns(
			"instagram_id", "username", "full_name", "biography", "profile_pic_url",
			"follower_count", "following_count", "post_count",
			"is_private", "is_verified", "fetched_at",
		).
		Values(
			profile.InstagramID, profile.Username, profile.FullName, profile.Biography,
			profile.ProfilePicURL, profile.FollowerCount, profile.FollowingCount,
			profile.PostCount, profile.IsPrivate, profile.IsVerified, time.Now(),
		).
		Suffix(`ON CONFLICT (instagram_id) DO UPDATE SET
			username = EXCLUDED.username,
			full_name = EXCLUDED.full_name,
			biography = EXCLUDED.biography,
			profile_pic_url = EXCLUDED.profile_pic_url,
			follower_count = EXCLUDED.follower_count,
			following_count = EXCLUDED.following_count,
			post_count = EXCLUDED.post_count,
			is_private = EXCLUDED.is_private,
			is_verified = EXCLUDED.is_verified,
			fetched_at = EXCLUDED.fetched_at`).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := p.querier(ctx).Exec(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

func (p *Pgx) GetByID(ctx context.Context, instagramID string) (*domain.Profile, error) {
	return p.getBy(ctx, sq.Eq{"instagram_id": instagramID})
}

func (p *Pgx) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return p.getBy(ctx, sq.Eq{"username": username})
}

func (p *Pgx) getBy(ctx context.Context, cond sq.Eq) (*domain.Profile, error) {
	query, args, err := repositories.SqBuilder.
		Select(
			"instagram_id", "username", "full_name", "biography", "profile_pic_url",
			"follower_count", "following_count", "post_count",
			"is_private", "is_verified", "fetched_at",
		).
		From("profiles").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var profile domain.Profile
	err = p.querier(ctx).QueryRow(ctx, query, args...).Scan(
		&profile.InstagramID, &profile.Username, &profile.FullName, &profile.Biography,
		&profile.ProfilePicURL, &profile.FollowerCount, &profile.FollowingCount,
		&profile.PostCount, &profile.IsPrivate, &profile.IsVerified, &profile.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}
