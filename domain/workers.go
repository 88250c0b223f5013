package domain

import "context"

type SyncLikesWorker interface {
	Start(ctx context.Context)

	// Send schedules a like counter refresh for the comment
	Send(commentID string)
}

// LikeCountRefresher rewrites denormalised like counters from the like records
// and reports the products those comments belong to.
type LikeCountRefresher interface {
	RefreshLikeCounts(ctx context.Context, commentIDs []string) ([]string, error)
}
