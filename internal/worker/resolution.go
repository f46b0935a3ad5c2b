package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/bearlink/internal/models"
	"github.com/atinyakov/bearlink/internal/storage"
)

const (
	DefaultInterval = time.Second
	DefaultLease    = time.Minute

	maxHintsPerCycle = 32
	commitTimeout    = 3 * time.Second
)

type LinkStore interface {
	ClaimByID(ctx context.Context, id string, lease time.Duration) (*models.Link, error)
	ClaimOldestPending(ctx context.Context, lease time.Duration) (*models.Link, error)
	UpdateResolution(ctx context.Context, id string, title, thumbnailURL *string, status models.Status) error
}

type Queue interface {
	PopOne(ctx context.Context) (string, bool, error)
}

type Resolver interface {
	Resolve(ctx context.Context, rawURL string) *models.Preview
}

// Notifier is told about every link the worker moved to a terminal status.
type Notifier interface {
	LinkResolved(link models.Link)
}

type Options struct {
	Interval    time.Duration
	Lease       time.Duration
	Concurrency int
}

// ResolutionWorker drives links from PENDING to COMPLETE or FAILED. Each
// cycle claims one link, resolves its URL and commits the outcome.
type ResolutionWorker struct {
	store    LinkStore
	queue    Queue
	resolver Resolver
	notifier Notifier
	logger   *zap.Logger
	opts     Options
}

func NewResolutionWorker(logger *zap.Logger, store LinkStore, queue Queue, resolver Resolver, opts Options) *ResolutionWorker {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Lease <= 0 {
		opts.Lease = DefaultLease
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	return &ResolutionWorker{
		store:    store,
		queue:    queue,
		resolver: resolver,
		logger:   logger,
		opts:     opts,
	}
}

// WithNotifier registers n to receive resolved links.
func (w *ResolutionWorker) WithNotifier(n Notifier) *ResolutionWorker {
	w.notifier = n
	return w
}

// Run cycles until ctx is done. Loops sleep for the interval only when a
// cycle found nothing to do or failed.
func (w *ResolutionWorker) Run(ctx context.Context) error {
	w.logger.Info("resolution worker started",
		zap.Duration("interval", w.opts.Interval),
		zap.Int("concurrency", w.opts.Concurrency),
	)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.opts.Concurrency; i++ {
		g.Go(func() error {
			w.loop(ctx)
			return nil
		})
	}
	err := g.Wait()

	w.logger.Info("resolution worker stopped")
	return err
}

func (w *ResolutionWorker) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		claimed, err := w.RunOnce(ctx)
		if err != nil && ctx.Err() == nil {
			w.logger.Error("resolution cycle failed", zap.Error(err))
		}
		if claimed && err == nil {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.opts.Interval):
		}
	}
}

// RunOnce performs one claim, resolve and commit cycle. claimed is false
// when no link was pending. A cycle whose context ends before anything was
// resolved commits nothing and returns the context error.
func (w *ResolutionWorker) RunOnce(ctx context.Context) (claimed bool, err error) {
	link, err := w.claim(ctx)
	if errors.Is(err, storage.ErrNoPending) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	log := w.logger.With(zap.String("link_id", link.ID), zap.String("url", link.URL))

	p := w.resolve(ctx, link.URL, log)
	if p.Empty() && ctx.Err() != nil {
		// shutdown cut the strategy short; the lease lapses and the link is
		// claimed again as PENDING
		log.Info("resolution abandoned", zap.Error(ctx.Err()))
		return true, ctx.Err()
	}

	var (
		title     *string
		thumbnail *string
		status    = models.StatusFailed
	)
	if !p.Empty() {
		status = models.StatusComplete
		thumbnail = p.ThumbnailURL
		if !link.HasTitle() {
			title = p.Title
		}
	}

	// a resolved preview is committed even when shutdown began meanwhile
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	if err := w.store.UpdateResolution(cctx, link.ID, title, thumbnail, status); err != nil {
		log.Error("commit resolution", zap.String("status", string(status)), zap.Error(err))
		return true, err
	}
	log.Info("link resolved", zap.String("status", string(status)))

	if w.notifier != nil {
		resolved := *link
		resolved.Status = status
		if title != nil {
			resolved.Title = title
		}
		if thumbnail != nil {
			resolved.ThumbnailURL = thumbnail
		}
		w.notifier.LinkResolved(resolved)
	}

	return true, nil
}

// claim prefers queue hints and falls back to the oldest pending link so
// rows whose enqueue was skipped or lost are still picked up.
func (w *ResolutionWorker) claim(ctx context.Context) (*models.Link, error) {
	for i := 0; i < maxHintsPerCycle; i++ {
		id, ok, err := w.queue.PopOne(ctx)
		if err != nil {
			w.logger.Warn("work queue unavailable", zap.Error(err))
			break
		}
		if !ok {
			break
		}

		link, err := w.store.ClaimByID(ctx, id, w.opts.Lease)
		switch {
		case err == nil:
			return link, nil
		case errors.Is(err, storage.ErrNotClaimable), errors.Is(err, storage.ErrNotFound):
			w.logger.Debug("skip stale queue entry", zap.String("link_id", id))
		default:
			return nil, err
		}
	}

	return w.store.ClaimOldestPending(ctx, w.opts.Lease)
}

func (w *ResolutionWorker) resolve(ctx context.Context, rawURL string, log *zap.Logger) (p *models.Preview) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("resolver panicked", zap.Any("panic", r))
			p = nil
		}
	}()

	return w.resolver.Resolve(ctx, rawURL)
}
