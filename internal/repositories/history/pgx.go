package history

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
		logger: logger.WithComponent("HistoryRepo"),
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

func (p *Pgx) Create(ctx context.Context, entry domain.DownloadHistory) error {
	query, args, err := repositories.SqBuilder.
		Insert("download_history").
		Columns(
			"username", "total_items", "new_items", "failed_items",
			"success", "error_message", "download_path", "started_at", "completed_at",
		).
		Values(
			entry.Username, entry.TotalItems, entry.NewItems, entry.FailedItems,
			entry.Success, entry.ErrorMessage, entry.DownloadPath, entry.StartedAt, entry.CompletedAt,
		).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.querier(ctx).Exec(ctx, query, args...)
	return err
}

func (p *Pgx) ListRecent(ctx context.Context, count int) ([]*domain.DownloadHistory, error) {
	query, args, err := repositories.SqBuilder.
		Select(
			"id", "username", "total_items", "new_items", "failed_items",
			"success", "error_message", "download_path", "started_at", "completed_at",
		).
		From("download_history").
		OrderBy("completed_at DESC").
		Limit(uint64(count)).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.DownloadHistory
	for rows.Next() {
		var entry domain.DownloadHistory
		if err := rows.Scan(
			&entry.ID, &entry.Username, &entry.TotalItems, &entry.NewItems, &entry.FailedItems,
			&entry.Success, &entry.ErrorMessage, &entry.DownloadPath, &entry.StartedAt, &entry.CompletedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	query, args, err := repositories.SqBuilder.
		Delete("download_history").
		Where(sq.Lt{"completed_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	tag, err := p.querier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
