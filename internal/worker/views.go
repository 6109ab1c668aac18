package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/aura-invites/backend/pkg/errors"
)

// DefaultFlushInterval is used when the configured interval is not positive.
const DefaultFlushInterval = 30 * time.Second

// ViewBuffer holds page views counted since the last flush.
type ViewBuffer interface {
	Drain(ctx context.Context) (map[uuid.UUID]int64, error)
	Restore(ctx context.Context, id uuid.UUID, n int64) error
}

// ViewSink persists drained view counts.
type ViewSink interface {
	AddViews(ctx context.Context, id uuid.UUID, n int64) error
}

// ViewFlusher periodically moves buffered view counts into the
// invitations table.
type ViewFlusher struct {
	buffer   ViewBuffer
	sink     ViewSink
	logger   *zap.Logger
	interval time.Duration
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewViewFlusher creates a flusher running every interval.
func NewViewFlusher(buffer ViewBuffer, sink ViewSink, interval time.Duration, logger *zap.Logger) *ViewFlusher {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewFlusher{buffer: buffer, sink: sink, logger: logger, interval: interval}
}

// Start begins the flush loop. Call Stop() to flush once more and release
// resources.
func (f *ViewFlusher) Start() {
	f.mu.Lock()
	if f.cancel != nil {
		f.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.done = make(chan struct{})
	f.mu.Unlock()

	go f.run(ctx)
	f.logger.Info("view flusher started", zap.Duration("interval", f.interval))
}

// Stop stops the loop after a final flush.
func (f *ViewFlusher) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel == nil {
		return
	}
	f.cancel()
	f.cancel = nil
	<-f.done
	f.logger.Info("view flusher stopped")
}

func (f *ViewFlusher) run(ctx context.Context) {
	defer close(f.done)
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			f.Flush(final)
			cancel()
			return
		case <-ticker.C:
			f.Flush(ctx)
		}
	}
}

// Flush drains the buffer once and returns the number of views persisted.
// Counts that fail to persist are put back for the next round.
func (f *ViewFlusher) Flush(ctx context.Context) int64 {
	counts, err := f.buffer.Drain(ctx)
	if err != nil {
		f.logger.Warn("drain views failed", zap.Error(err))
	}
	var total int64
	for id, n := range counts {
		if n <= 0 {
			continue
		}
		if err := f.sink.AddViews(ctx, id, n); err != nil {
			if apperrors.IsNotFound(err) {
				f.logger.Debug("dropping views of deleted invitation", zap.String("invite_id", id.String()), zap.Int64("views", n))
				continue
			}
			f.logger.Warn("persist views failed", zap.String("invite_id", id.String()), zap.Error(err))
			apperrors.BestEffort(f.logger, "restore views", f.buffer.Restore(ctx, id, n))
			continue
		}
		total += n
	}
	if total > 0 {
		f.logger.Debug("views flushed", zap.Int64("views", total), zap.Int("invitations", len(counts)))
	}
	return total
}
