package downloader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

func TestDownloadAllWritesFiles(t *testing.T) {
	payload := strings.Repeat("x", 20000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	pool := NewPool(2, 8192, logger.NewNop())

	jobs := []Job{
		{MediaID: 1, URL: server.URL + "/a.jpg", Dest: filepath.Join(dir, "abc_0.jpg")},
		{MediaID: 2, URL: server.URL + "/b.jpg", Dest: filepath.Join(dir, "abc_1.jpg")},
	}
	results := pool.DownloadAll(context.Background(), jobs)

	require.Len(t, results, 2)
	for _, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, int64(len(payload)), res.Size)

		data, err := os.ReadFile(res.Path)
		require.NoError(t, err)
		assert.Len(t, data, len(payload))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files may remain")
}

func TestDownloadAllSkipsExistingFiles(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "fresh")
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "abc_0.jpg")
	require.NoError(t, os.WriteFile(dest, []byte("already here"), 0o644))

	pool := NewPool(1, 8192, logger.NewNop())
	results := pool.DownloadAll(context.Background(), []Job{{MediaID: 1, URL: server.URL, Dest: dest}})

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Skipped)
	assert.Equal(t, int32(0), hits.Load())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "already here", string(data))
}

func TestDownloadAllNoPartialFileOnTruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Announce more bytes than are sent, then cut the connection.
		w.Header().Set("Content-Length", "10000")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("short"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		conn, _, _ := w.(http.Hijacker).Hijack()
		conn.Close()
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "abc_0.jpg")

	pool := NewPool(1, 4, logger.NewNop())
	results := pool.DownloadAll(context.Background(), []Job{{MediaID: 1, URL: server.URL, Dest: dest}})

	require.Len(t, results, 1)
	require.Error(t, results[0].Err)

	_, err := os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "final path must not exist after a failed transfer")
	_, err = os.Stat(dest + tmpSuffix)
	assert.True(t, os.IsNotExist(err), "temporary file must be cleaned up")
}

func TestDownloadAllReportsHTTPFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dir := t.TempDir()
	pool := NewPool(1, 8192, logger.NewNop())
	results := pool.DownloadAll(context.Background(), []Job{
		{MediaID: 1, URL: server.URL, Dest: filepath.Join(dir, "gone.jpg")},
	})

	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "HTTP 404")
}

func TestDownloadAllBoundsConcurrency(t *testing.T) {
	const workers = 3
	var inFlight, peak atomic.Int32
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := inFlight.Add(1)
		mu.Lock()
		if cur > peak.Load() {
			peak.Store(cur)
		}
		mu.Unlock()
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
		fmt.Fprint(w, "data")
	}))
	defer server.Close()

	dir := t.TempDir()
	pool := NewPool(workers, 8192, logger.NewNop())

	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = Job{
			MediaID: int64(i),
			URL:     server.URL,
			Dest:    filepath.Join(dir, fmt.Sprintf("f_%d.jpg", i)),
		}
	}
	results := pool.DownloadAll(context.Background(), jobs)

	require.Len(t, results, 10)
	assert.LessOrEqual(t, peak.Load(), int32(workers))
}

func TestDownloadAllStopsOnCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, "late")
	}))
	defer server.Close()
	defer close(release)

	dir := t.TempDir()
	pool := NewPool(1, 8192, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = Job{MediaID: int64(i), URL: server.URL, Dest: filepath.Join(dir, fmt.Sprintf("f_%d.jpg", i))}
	}
	results := pool.DownloadAll(ctx, jobs)

	assert.Less(t, len(results), 5, "cancellation must stop feeding the workers")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial files after cancellation")
}

func TestSweepStaleTempFiles(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "user", "old.jpg.tmp")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("junk"), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(dir, "user", "new.jpg.tmp")
	require.NoError(t, os.WriteFile(fresh, []byte("junk"), 0o644))
	keep := filepath.Join(dir, "user", "done.jpg")
	require.NoError(t, os.WriteFile(keep, []byte("data"), 0o644))

	removed := SweepStaleTempFiles(dir, 24*time.Hour, logger.NewNop())

	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, keep)
}
