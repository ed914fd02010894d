package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"nomadtool/internal/logging"
	"nomadtool/internal/media"
	"nomadtool/internal/services"
)

// Copier moves files to their destination with progress reporting, bounded
// retries, and optional safe source deletion.
type Copier struct {
	bufferSize   int
	retries      int
	backoff      time.Duration
	deleteSource bool
	manager      *ShareManager
	logger       *slog.Logger

	// now and sleep are test seams.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// CopierOption configures a Copier.
type CopierOption func(*Copier)

// WithBufferSize sets the copy buffer size in bytes.
func WithBufferSize(size int) CopierOption {
	return func(c *Copier) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

// WithRetries bounds the attempts per item.
func WithRetries(retries int) CopierOption {
	return func(c *Copier) {
		if retries > 0 {
			c.retries = retries
		}
	}
}

// WithBackoff sets the delay between attempts.
func WithBackoff(backoff time.Duration) CopierOption {
	return func(c *Copier) {
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// WithDeleteSource enables source deletion after a verified transfer.
func WithDeleteSource(enabled bool) CopierOption {
	return func(c *Copier) { c.deleteSource = enabled }
}

// WithCopierLogger attaches a logger.
func WithCopierLogger(logger *slog.Logger) CopierOption {
	return func(c *Copier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCopier creates a Copier that re-checks reachability through manager
// between retry attempts.
func NewCopier(manager *ShareManager, opts ...CopierOption) *Copier {
	copier := &Copier{
		bufferSize: 1 << 20,
		retries:    3,
		backoff:    2 * time.Second,
		manager:    manager,
		logger:     logging.NewNop(),
		now:        time.Now,
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
	for _, opt := range opts {
		opt(copier)
	}
	return copier
}

// Copy transfers the item's source file to destPath on target. Transient
// failures are retried with backoff and a reachability re-check; exhausting
// the attempts is a fatal per-item error. Cancellation aborts immediately
// and is returned untouched.
func (c *Copier) Copy(ctx context.Context, item *media.Item, target media.Target, destPath string, progress media.ProgressFunc) error {
	logger := logging.WithContext(ctx, c.logger).With(
		logging.String("destination", destPath))

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if attempt > 1 {
			progress.Emit(media.ProgressEvent{
				ItemID:  item.ID,
				Stage:   "transfer",
				Percent: 0,
				Message: fmt.Sprintf("Retrying transfer (attempt %d of %d)", attempt, c.retries),
			})
			if err := c.sleep(ctx, c.backoff); err != nil {
				return err
			}
			if c.manager != nil {
				if err := c.manager.EnsureReachable(ctx, target); err != nil {
					lastErr = err
					logger.Warn("destination unreachable before retry", logging.Error(err))
					continue
				}
			}
		}

		err := c.copyOnce(ctx, item, destPath, progress)
		if err == nil {
			c.maybeDeleteSource(item, destPath, logger)
			return nil
		}
		if services.IsCancellation(err) {
			return err
		}
		lastErr = err
		logger.Warn("copy attempt failed",
			logging.Int("attempt", attempt),
			logging.Error(err))
	}
	return services.Wrap(services.ErrTransient, "transfer", "copy", fmt.Sprintf("exhausted %d attempts", c.retries), lastErr)
}

// copyOnce streams the file with the configured buffer, emitting progress
// at a bounded cadence. The partial destination is removed on any error.
func (c *Copier) copyOnce(ctx context.Context, item *media.Item, destPath string, progress media.ProgressFunc) (err error) {
	src, err := os.Open(item.SourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	totalBytes := info.Size()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	dest, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		dest.Close()
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	var (
		copied      int64
		lastEmitted float64 = -1
		lastEmitAt  time.Time
		startedAt   = c.now()
	)
	buf := make([]byte, c.bufferSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dest.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("write destination: %w", writeErr)
			}
			copied += int64(n)

			percent := 100.0
			if totalBytes > 0 {
				percent = float64(copied) / float64(totalBytes) * 100
			}
			nowTime := c.now()
			if percent-lastEmitted >= 1 || nowTime.Sub(lastEmitAt) >= 500*time.Millisecond {
				throughput := throughputString(copied, nowTime.Sub(startedAt))
				progress.Emit(media.ProgressEvent{
					ItemID:  item.ID,
					Stage:   "transfer",
					Percent: percent,
					Message: fmt.Sprintf("Transferring: %.1f%% (%s)", percent, throughput),
				})
				lastEmitted = percent
				lastEmitAt = nowTime
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return fmt.Errorf("read source: %w", readErr)
		}
	}

	if err := dest.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}

// maybeDeleteSource removes the source only after both sides are
// independently re-verified. Failure to delete is logged, never escalated.
func (c *Copier) maybeDeleteSource(item *media.Item, destPath string, logger *slog.Logger) {
	if !c.deleteSource {
		return
	}
	if _, err := os.Stat(destPath); err != nil {
		logger.Warn("skipping source delete, destination not verifiable", logging.Error(err))
		return
	}
	if _, err := os.Stat(item.SourcePath); err != nil {
		logger.Warn("skipping source delete, source not verifiable", logging.Error(err))
		return
	}
	if err := os.Remove(item.SourcePath); err != nil {
		logger.Warn("source delete failed", logging.Error(err))
		return
	}
	logger.Info("source deleted after verified transfer")
}

func throughputString(copied int64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return humanize.IBytes(uint64(copied))
	}
	perSecond := float64(copied) / elapsed.Seconds()
	return humanize.IBytes(uint64(perSecond)) + "/s"
}
