// Package worker runs the background jobs of the invitation service: removal
// of assets no invitation references anymore and flushing buffered page
// views into Postgres.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/aura-invites/backend/pkg/errors"
	"github.com/aura-invites/backend/pkg/queue"
)

// JobSource is the queue side the processor consumes.
type JobSource interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// AssetRemover deletes a stored asset by its public URL.
type AssetRemover interface {
	Remove(ctx context.Context, publicURL string) error
}

// AssetCleanupProcessor removes uploaded files that were replaced or whose
// invitation was deleted.
type AssetCleanupProcessor struct {
	jobs    JobSource
	blobs   AssetRemover
	logger  *zap.Logger
	backoff time.Duration
}

// NewAssetCleanupProcessor creates an asset cleanup processor.
func NewAssetCleanupProcessor(jobs JobSource, blobs AssetRemover, logger *zap.Logger) *AssetCleanupProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetCleanupProcessor{jobs: jobs, blobs: blobs, logger: logger, backoff: queue.RetryBackoff}
}

// Process executes one cleanup job. A URL outside the bucket is logged and
// dropped since retrying cannot fix it.
func (p *AssetCleanupProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeAssetCleanup {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.AssetCleanupPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.URL == "" {
		return nil
	}

	if err := p.blobs.Remove(ctx, payload.URL); err != nil {
		if apperrors.IsValidation(err) {
			p.logger.Warn("skipping foreign asset url", zap.String("url", payload.URL), zap.Error(err))
			return nil
		}
		return fmt.Errorf("remove asset: %w", err)
	}
	p.logger.Info("asset cleanup completed", zap.String("job_id", job.ID), zap.String("url", payload.URL))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *AssetCleanupProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("asset worker stopping")
			return
		default:
		}

		job, err := p.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.jobs.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *AssetCleanupProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
