package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	attachmentPort "welbex/internal/ports/attachment"
	postPort "welbex/internal/ports/post"
)

// AttachmentSweeper removes stored files that no post references. A file is
// only touched once it is older than Grace, so uploads whose post record is
// still being written survive.
type AttachmentSweeper struct {
	PostRepo postPort.PostRepository
	Storage  attachmentPort.Storage
	Interval time.Duration
	Grace    time.Duration
	Logger   *zap.Logger
	now      func() time.Time
}

func NewAttachmentSweeper(
	postRepo postPort.PostRepository,
	storage attachmentPort.Storage,
	interval, grace time.Duration,
	logger *zap.Logger,
) *AttachmentSweeper {
	return &AttachmentSweeper{
		PostRepo: postRepo,
		Storage:  storage,
		Interval: interval,
		Grace:    grace,
		Logger:   logger,
		now:      time.Now,
	}
}

// Run sweeps once immediately and then every Interval until ctx is done.
// A non-positive Interval disables the sweeper.
func (w *AttachmentSweeper) Run(ctx context.Context) {
	if w.Interval <= 0 {
		w.Logger.Info("Attachment sweeper disabled")
		return
	}
	w.Logger.Info("Attachment sweeper started", zap.Duration("interval", w.Interval), zap.Duration("grace", w.Grace))

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
			w.Logger.Error("Attachment sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			w.Logger.Info("Attachment sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

// Sweep runs one pass and returns how many files it removed.
func (w *AttachmentSweeper) Sweep(ctx context.Context) (int, error) {
	objects, err := w.Storage.List(ctx)
	if err != nil {
		return 0, err
	}
	refs, err := w.PostRepo.ListAttachmentRefs(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		referenced[ref] = struct{}{}
	}

	cutoff := w.now().Add(-w.Grace)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Ref]; ok {
			continue
		}
		if obj.ModTime.After(cutoff) {
			continue
		}
		if err := w.Storage.Remove(ctx, obj.Ref); err != nil {
			w.Logger.Warn("Could not remove orphaned attachment", zap.String("ref", obj.Ref), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		w.Logger.Info("Removed orphaned attachments", zap.Int("count", removed))
	}
	return removed, nil
}
