package maintenance

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/config"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

type fakeHistoryRepo struct {
	deleted   int64
	prunedFor time.Duration
}

func (f *fakeHistoryRepo) Create(context.Context, domain.DownloadHistory) error { return nil }

func (f *fakeHistoryRepo) ListRecent(context.Context, int) ([]*domain.DownloadHistory, error) {
	return nil, nil
}

func (f *fakeHistoryRepo) CleanupOldRecords(_ context.Context, olderThan time.Duration) (int64, error) {
	f.prunedFor = olderThan
	return f.deleted, nil
}

func TestRunOncePrunesHistoryAndTempFiles(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "acme", "abc_0.jpg.tmp")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("junk"), 0o644))
	old := time.Now().Add(-2 * tempFileMaxAge)
	require.NoError(t, os.Chtimes(stale, old, old))

	cfg := &config.Config{}
	cfg.Downloader.Dir = dir
	repo := &fakeHistoryRepo{deleted: 7}

	j := &Janitor{cfg: cfg, historyRepo: repo, logger: logger.NewNop()}
	j.runOnce(context.Background())

	assert.Equal(t, historyRetention, repo.prunedFor)
	assert.NoFileExists(t, stale)
}
