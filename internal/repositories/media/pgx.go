package media

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
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
		logger: logger.WithComponent("MediaRepo"),
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

func (p *Pgx) CreateBatch(ctx context.Context, shortcode string, items []domain.MediaItem) ([]domain.MediaItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	builder := repositories.SqBuilder.
		Insert("media").
		Columns("post_shortcode", "url", "media_type", "ordinal", "is_downloaded", "created_at")

	now := time.Now()
	for _, item := range items {
		builder = builder.Values(shortcode, item.URL, string(item.MediaType), item.Ordinal, false, now)
	}

	query, args, err := builder.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inserted := make([]domain.MediaItem, 0, len(items))
	for i := 0; rows.Next(); i++ {
		item := items[i]
		if err := rows.Scan(&item.ID); err != nil {
			return nil, err
		}
		item.PostShortcode = shortcode
		item.CreatedAt = now
		inserted = append(inserted, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return inserted, nil
}

func (p *Pgx) MarkDownloaded(ctx context.Context, id int64, localPath string) error {
	query, args, err := repositories.SqBuilder.
		Update("media").
		Set("is_downloaded", true).
		Set("local_path", localPath).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	tag, err := p.querier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Pgx) ListPending(ctx context.Context, profileID string) ([]domain.MediaItem, error) {
	query, args, err := repositories.SqBuilder.
		Select("m.id", "m.post_shortcode", "m.url", "m.media_type", "m.ordinal", "m.created_at").
		From("media m").
		Join("posts p ON p.shortcode = m.post_shortcode").
		Where(sq.Eq{"p.profile_id": profileID, "m.is_downloaded": false}).
		OrderBy("p.created_at", "m.ordinal").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MediaItem
	for rows.Next() {
		var item domain.MediaItem
		var mediaType string
		if err := rows.Scan(&item.ID, &item.PostShortcode, &item.URL, &mediaType, &item.Ordinal, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.MediaType = domain.MediaType(mediaType)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
