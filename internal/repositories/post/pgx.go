package post

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
		logger: logger.WithComponent("PostRepo"),
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

func (p *Pgx) Create(ctx context.Context, post domain.Post) error {
	query, args, err := repositories.SqBuilder.
		Insert("posts").
		Columns(
			"shortcode", "profile_id", "typename", "caption", "taken_at",
			"like_count", "comment_count", "display_url", "is_video", "video_url",
			"is_downloaded", "created_at",
		).
		Values(
			post.Shortcode, post.ProfileID, post.Typename, post.Caption, post.TakenAt,
			post.LikeCount, post.CommentCount, post.DisplayURL, post.IsVideo, post.VideoURL,
			false, time.Now(),
		).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err := p.querier(ctx).Exec(ctx, query, args...); err != nil {
		if repositories.IsUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (p *Pgx) UpdateEngagement(ctx context.Context, shortcode string, likeCount, commentCount int) error {
	query, args, err := repositories.SqBuilder.
		Update("posts").
		Set("like_count", likeCount).
		Set("comment_count", commentCount).
		Where(sq.Eq{"shortcode": shortcode}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.querier(ctx).Exec(ctx, query, args...)
	return err
}

func (p *Pgx) MarkDownloaded(ctx context.Context, shortcode string) error {
	query, args, err := repositories.SqBuilder.
		Update("posts").
		Set("is_downloaded", true).
		Where(sq.Eq{"shortcode": shortcode}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.querier(ctx).Exec(ctx, query, args...)
	return err
}

func (p *Pgx) GetByShortcode(ctx context.Context, shortcode string) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select(
			"shortcode", "profile_id", "typename", "caption", "taken_at",
			"like_count", "comment_count", "display_url", "is_video", "video_url",
			"is_downloaded", "created_at",
		).
		From("posts").
		Where(sq.Eq{"shortcode": shortcode}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var post domain.Post
	err = p.querier(ctx).QueryRow(ctx, query, args...).Scan(
		&post.Shortcode, &post.ProfileID, &post.Typename, &post.Caption, &post.TakenAt,
		&post.LikeCount, &post.CommentCount, &post.DisplayURL, &post.IsVideo, &post.VideoURL,
		&post.IsDownloaded, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}
