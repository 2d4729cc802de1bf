package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/fx"

	"github.com/Jeremy-Gitau/MediaSnap/pkg/config"
	apperrors "github.com/Jeremy-Gitau/MediaSnap/pkg/errors"
	"github.com/Jeremy-Gitau/MediaSnap/pkg/logger"
)

const tmpSuffix = ".tmp"

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// Pool downloads media files through a fixed set of workers fed from a job
// channel. Concurrency is bounded by the worker count, not by the batch size.
type Pool struct {
	client    *resty.Client
	workers   int
	chunkSize int
	logger    logger.Logger
}

var _ Downloader = (*Pool)(nil)

func New(opts Opts) *Pool {
	return NewPool(
		opts.Config.Downloader.MaxConcurrent,
		opts.Config.Downloader.ChunkSize,
		opts.Logger,
	)
}

func NewPool(workers, chunkSize int, log logger.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if chunkSize < 1 {
		chunkSize = 8192
	}
	return &Pool{
		client: resty.New().
			SetTimeout(2 * time.Minute).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)),
		workers:   workers,
		chunkSize: chunkSize,
		logger:    log.WithComponent("Downloader"),
	}
}

func (p *Pool) DownloadAll(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	jobCh := make(chan Job)
	resultCh := make(chan Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				resultCh <- p.download(ctx, job)
			}
		}()
	}

feed:
	for _, job := range jobs {
		select {
		case jobCh <- job:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobCh)
	wg.Wait()
	close(resultCh)

	results := make([]Result, 0, len(jobs))
	for res := range resultCh {
		results = append(results, res)
	}
	return results
}

func (p *Pool) download(ctx context.Context, job Job) Result {
	start := time.Now()
	res := Result{Job: job}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	// A complete file from an earlier run is never re-fetched. Partial files
	// only ever exist under the temporary suffix.
	if info, err := os.Stat(job.Dest); err == nil && info.Size() > 0 {
		res.Path = job.Dest
		res.Size = info.Size()
		res.Skipped = true
		return res
	}

	if err := os.MkdirAll(filepath.Dir(job.Dest), 0o755); err != nil {
		res.Err = apperrors.Wrap(err, "failed to create download directory")
		return res
	}

	size, err := p.fetch(ctx, job)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}

	res.Path = job.Dest
	res.Size = size
	p.logger.Debug("Downloaded media file",
		"media_id", job.MediaID,
		"path", job.Dest,
		"bytes", size,
		"duration", res.Duration.Round(time.Millisecond).String(),
	)
	return res
}

// fetch streams the response body to Dest+".tmp" and renames it into place
// once the body is fully written. Any failure removes the temporary file, so
// an aborted run never leaves a partial file under the final name.
func (p *Pool) fetch(ctx context.Context, job Job) (int64, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(job.URL)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrTransient, fmt.Sprintf("request for media %d failed: %v", job.MediaID, err))
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		return 0, apperrors.Wrap(apperrors.FromStatusCode(resp.StatusCode()),
			fmt.Sprintf("media %d returned HTTP %d", job.MediaID, resp.StatusCode()))
	}

	tmpPath := job.Dest + tmpSuffix
	out, err := os.Create(tmpPath)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to create temporary file")
	}

	written, copyErr := p.copyBody(ctx, out, body)
	closeErr := out.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr == nil && resp.RawResponse.ContentLength > 0 && written != resp.RawResponse.ContentLength {
		copyErr = apperrors.Wrap(apperrors.ErrTransient,
			fmt.Sprintf("short body for media %d: got %d of %d bytes", job.MediaID, written, resp.RawResponse.ContentLength))
	}
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, copyErr
	}

	if err := os.Rename(tmpPath, job.Dest); err != nil {
		os.Remove(tmpPath)
		return 0, apperrors.Wrap(err, "failed to move downloaded file into place")
	}
	return written, nil
}

// copyBody copies in fixed-size chunks, checking for cancellation between
// chunks so a stuck transfer does not outlive its run.
func (p *Pool) copyBody(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, p.chunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, apperrors.Wrap(writeErr, "write failed")
			}
			if wn < n {
				return written, apperrors.Wrap(io.ErrShortWrite, "write failed")
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, apperrors.Wrap(apperrors.ErrTransient, fmt.Sprintf("read failed: %v", readErr))
		}
	}
}

// SweepStaleTempFiles removes orphaned temporary files older than the given
// age under root. It is run periodically by the maintenance job.
func SweepStaleTempFiles(root string, olderThan time.Duration, log logger.Logger) int {
	cutoff := time.Now().Add(-olderThan)
	removed := 0

	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != tmpSuffix {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err == nil {
			removed++
			log.Debug("Removed stale temporary file", "path", path)
		}
		return nil
	})
	return removed
}
