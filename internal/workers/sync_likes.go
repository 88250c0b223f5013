package workers

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/shop-comments/domain"
)

const (
	defaultBatchSize     = 100
	defaultFlushInterval = 1 * time.Second
	shutdownFlushTimeout = 5 * time.Second
)

var (
	likeSyncDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comment_like_sync_dropped_total",
		Help: "Like counter refreshes dropped because the worker buffer was full",
	})
	likeSyncRefreshed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comment_like_sync_refreshed_total",
		Help: "Comments whose like counter was recomputed",
	})
	likeSyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comment_like_sync_failures_total",
		Help: "Batches that failed to refresh",
	})
)

// syncLikesWorker batches comment ids whose likes changed and refreshes their
// like counters, then drops the stale cached comments and product first pages.
type syncLikesWorker struct {
	refresher     domain.LikeCountRefresher
	cache         domain.CommentCache
	log           logrus.FieldLogger
	ch            chan string
	batchSize     int
	flushInterval time.Duration
}

var _ domain.SyncLikesWorker = (*syncLikesWorker)(nil)

func NewSyncLikesWorker(refresher domain.LikeCountRefresher, cache domain.CommentCache, log logrus.FieldLogger) *syncLikesWorker {
	return &syncLikesWorker{
		refresher:     refresher,
		cache:         cache,
		log:           log,
		ch:            make(chan string, 1024),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
	}
}

// Send never blocks; when the buffer is full the id is dropped and the
// counter heals on the next like of that comment.
func (s *syncLikesWorker) Send(commentID string) {
	select {
	case s.ch <- commentID:
	default:
		likeSyncDropped.Inc()
		s.log.WithField("comment_id", commentID).Warn("SyncLikesWorker's channel is full, task dropped")
	}
}

// Start blocks until ctx is cancelled, then flushes what is buffered.
func (s *syncLikesWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]string, 0, s.batchSize)
	for {
		select {
		case id := <-s.ch:
			batch = append(batch, id)
			if len(batch) >= s.batchSize {
				s.flush(ctx, batch)
				batch = make([]string, 0, s.batchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(ctx, batch)
				batch = make([]string, 0, s.batchSize)
			}
		case <-ctx.Done():
			s.log.Info("shutting down SyncLikesWorker, flushing remaining tasks...")
		drain:
			for {
				select {
				case id := <-s.ch:
					batch = append(batch, id)
				default:
					break drain
				}
			}
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
			s.flush(flushCtx, batch)
			cancel()
			return
		}
	}
}

func (s *syncLikesWorker) flush(ctx context.Context, batch []string) {
	if len(batch) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(batch))
	ids := make([]string, 0, len(batch))
	for _, id := range batch {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	productIDs, err := s.refresher.RefreshLikeCounts(ctx, ids)
	if err != nil {
		likeSyncFailures.Inc()
		s.log.WithError(err).WithField("count", len(ids)).Error("failed to refresh like counts")
		return
	}
	likeSyncRefreshed.Add(float64(len(ids)))
	for _, id := range ids {
		if err := s.cache.DeleteComment(ctx, id); err != nil {
			s.log.WithError(err).WithField("comment_id", id).Warn("failed to drop cached comment")
		}
	}
	// 首页缓存里也带着点赞数
	for _, productID := range productIDs {
		if err := s.cache.DeleteProductFirstPage(ctx, productID); err != nil {
			s.log.WithError(err).WithField("product_id", productID).Warn("failed to drop cached first page")
		}
	}
}
