package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"nomadtool/internal/logging"
	"nomadtool/internal/media"
	"nomadtool/internal/services"
	"nomadtool/internal/transfer"
)

// Run processes the batch to completion. Metadata enrichment fans out
// first; encode and copy then run strictly one item at a time. A per-item
// failure moves to the next item, cancellation stops the batch after the
// in-flight item unwinds.
func (o *Orchestrator) Run(ctx context.Context, batch *Batch) error {
	batch.State = media.BatchRunning
	ctx = services.WithBatchID(ctx, batch.ID)
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("batch started", logging.Int("items", len(batch.Items)))

	var tempFiles []string
	defer func() {
		for _, path := range tempFiles {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.Warn("temp cleanup failed", logging.String("path", path), logging.Error(err))
			}
		}
		if o.shares != nil {
			o.shares.Release(context.WithoutCancel(ctx))
		}
	}()

	if o.enricher != nil {
		o.enricher.EnrichBatch(ctx, batch.Items)
	}
	if err := ctx.Err(); err != nil {
		batch.State = media.BatchCancelled
		return err
	}

	// The space decision needs durations: a transcode item is estimated
	// from bitrate and runtime, so probe before choosing a destination.
	if o.space != nil && o.encoder != nil {
		for _, item := range batch.Items {
			if !item.WillTranscode() || item.DurationSeconds > 0 {
				continue
			}
			if err := o.encoder.Scan(ctx, item); err != nil {
				if services.IsCancellation(err) {
					batch.State = media.BatchCancelled
					return err
				}
				logger.Debug("track scan failed, space estimate uses file size",
					logging.String(logging.FieldItemID, item.ID),
					logging.Error(err))
			}
		}
	}

	if err := o.chooseDestination(ctx, batch); err != nil {
		if services.IsCancellation(err) {
			batch.State = media.BatchCancelled
			return err
		}
		for _, item := range batch.Items {
			if item.State == media.StatePending {
				item.State = media.StateError
				item.StatusMessage = "Destination unreachable"
			}
		}
		batch.State = media.BatchFinished
		return err
	}

	encoderID := ""
	if o.encoder != nil {
		encoderID = o.encoder.DetectEncoder(ctx)
	}

	for _, item := range batch.Items {
		// Items that never entered processing stay pending; cancelled is
		// reserved for the in-flight item that unwound.
		if ctx.Err() != nil {
			break
		}
		temp, err := o.processItem(ctx, batch, item, encoderID)
		if temp != "" {
			tempFiles = append(tempFiles, temp)
		}
		switch {
		case err == nil:
			item.State = media.StateComplete
			item.ProgressPercent = 100
			if item.StatusMessage == "" {
				item.StatusMessage = "Complete"
			}
		case services.IsCancellation(err):
			item.State = media.StateCancelled
			item.StatusMessage = "Cancelled"
		default:
			item.State = media.StateError
			item.StatusMessage = err.Error()
			logger.Error("item failed",
				logging.String(logging.FieldItemID, item.ID),
				logging.Error(err))
		}
		o.emitBatchProgress(batch, item)
	}

	if ctx.Err() != nil {
		batch.State = media.BatchCancelled
	} else {
		batch.State = media.BatchFinished
	}

	if batch.SuccessCount() > 0 && o.rescanner != nil {
		if err := o.rescanner.Rescan(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("library rescan failed", logging.Error(err))
		} else {
			logger.Info("library rescan triggered")
		}
	}

	logger.Info("batch finished",
		logging.String("state", string(batch.State)),
		logging.Int("succeeded", batch.SuccessCount()))
	if batch.State == media.BatchCancelled {
		return context.Canceled
	}
	return nil
}

// chooseDestination verifies the primary's reachability and makes the
// once-per-batch space failover decision.
func (o *Orchestrator) chooseDestination(ctx context.Context, batch *Batch) error {
	primary := o.targets[0]
	if o.shares != nil {
		if err := o.shares.EnsureReachable(ctx, primary); err != nil {
			if services.IsCancellation(err) {
				return err
			}
			o.logger.Warn("primary destination unreachable", logging.Error(err))
			// An unreachable primary is handled like a full one: any local
			// alternative that fits the batch takes over.
			for _, candidate := range o.targets[1:] {
				if candidate.IsShare() {
					continue
				}
				if o.shares.Reachable(candidate) {
					batch.Destination = candidate
					batch.FailedOver = true
					o.logger.Info("destination failover: primary unreachable",
						logging.String("to", candidate.Name))
					return nil
				}
			}
			return err
		}
	}

	if o.space != nil {
		required := transfer.EstimateBatchBytes(batch.Items)
		chosen, failedOver := o.space.Choose(o.targets, required)
		batch.Destination = chosen
		batch.FailedOver = failedOver
		return nil
	}
	batch.Destination = primary
	return nil
}

// processItem runs the heavy stages for one item. It returns the temp
// transcode path (if one was created) for end-of-batch cleanup.
func (o *Orchestrator) processItem(ctx context.Context, batch *Batch, item *media.Item, encoderID string) (string, error) {
	item.State = media.StateProcessing
	ctx = services.WithItemID(ctx, item.ID)
	logger := logging.WithContext(ctx, o.logger)

	// Duplicate check happens-before any encode or copy.
	duplicate, err := o.planner.CheckDuplicate(item, batch.Destination.Path)
	if err != nil {
		logger.Debug("duplicate check inconclusive", logging.Error(err))
	}
	if duplicate {
		item.IsDuplicate = true
		item.StatusMessage = "Skipped, already in library"
		return "", nil
	}

	tempPath := ""
	if item.WillTranscode() && o.encoder != nil {
		transcodeCtx := services.WithStage(ctx, "transcode")
		if item.DurationSeconds == 0 && len(item.AudioTracks) == 0 {
			if err := o.encoder.Scan(transcodeCtx, item); err != nil {
				return "", err
			}
		}
		tempPath = filepath.Join(o.stagingDir, fmt.Sprintf("%s-transcode%s", item.ID, o.planner.OutputExt(item)))
		if err := o.encoder.Transcode(transcodeCtx, item, encoderID, tempPath, o.progress); err != nil {
			return tempPath, err
		}
		if err := item.SetSource(tempPath); err != nil {
			return tempPath, fmt.Errorf("adopt transcode output: %w", err)
		}
	}

	destPath := o.planner.Destination(item, batch.Destination.Path)
	if err := o.copier.Copy(services.WithStage(ctx, "transfer"), item, batch.Destination, destPath, o.progress); err != nil {
		return tempPath, err
	}

	o.placePoster(ctx, batch, item)
	return tempPath, nil
}

// placePoster is advisory: artwork problems never fail an item.
func (o *Orchestrator) placePoster(ctx context.Context, batch *Batch, item *media.Item) {
	if o.posters == nil {
		return
	}
	posterBase, ok := o.planner.PosterBase(item, batch.Destination.Path)
	if !ok {
		return
	}
	if _, err := o.posters.Place(ctx, item, posterBase); err != nil {
		logging.WithContext(ctx, o.logger).Warn("poster placement failed", logging.Error(err))
	}
}

func (o *Orchestrator) emitBatchProgress(batch *Batch, item *media.Item) {
	o.progress.Emit(media.ProgressEvent{
		ItemID:  item.ID,
		Stage:   "batch",
		Percent: batch.Percent(),
		Message: item.StatusMessage,
	})
}
