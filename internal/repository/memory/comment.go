package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/Guyuepp/shop-comments/domain"
)

// commentRepository keeps comments in an id-keyed arena with product and
// parent indices. Stored values are snapshots so callers never share state
// with the store.
type commentRepository struct {
	mu        sync.RWMutex
	comments  map[string]domain.CommentSnapshot
	byProduct map[string]map[string]struct{}
	byParent  map[string]map[string]struct{}
	likes     map[string][]string // commentID -> userIDs in like order
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository() *commentRepository {
	return &commentRepository{
		comments:  make(map[string]domain.CommentSnapshot),
		byProduct: make(map[string]map[string]struct{}),
		byParent:  make(map[string]map[string]struct{}),
		likes:     make(map[string][]string),
	}
}

func (r *commentRepository) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return domain.RestoreComment(s)
}

func (r *commentRepository) FindByProductID(_ context.Context, productID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.page(r.byProduct[productID], func(s domain.CommentSnapshot) bool {
		return s.ParentID == ""
	}, p)
}

func (r *commentRepository) FindRepliesByParentID(_ context.Context, parentID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.page(r.byParent[parentID], nil, p)
}

func (r *commentRepository) FindByUserID(_ context.Context, userID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]struct{})
	for id, s := range r.comments {
		if s.UserID == userID {
			ids[id] = struct{}{}
		}
	}
	return r.page(ids, nil, p)
}

func (r *commentRepository) Save(_ context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := c.Snapshot()
	if old, ok := r.comments[s.ID]; ok {
		s.LikeCount = old.LikeCount
	}
	r.comments[s.ID] = s
	addIndex(r.byProduct, s.ProductID, s.ID)
	if s.ParentID != "" {
		addIndex(r.byParent, s.ParentID, s.ID)
	}
	return nil
}

func (r *commentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return domain.ErrNotFound
	}
	r.deleteTree(id)
	return nil
}

func (r *commentRepository) deleteTree(id string) {
	for childID := range r.byParent[id] {
		r.deleteTree(childID)
	}
	s := r.comments[id]
	delete(r.comments, id)
	delete(r.likes, id)
	delete(r.byParent, id)
	if set, ok := r.byProduct[s.ProductID]; ok {
		delete(set, id)
	}
	if set, ok := r.byParent[s.ParentID]; ok {
		delete(set, id)
	}
}

func (r *commentRepository) LikeComment(_ context.Context, commentID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.comments[commentID]
	if !ok {
		return domain.ErrNotFound
	}
	if slices.Contains(r.likes[commentID], userID) {
		return nil
	}
	r.likes[commentID] = append(r.likes[commentID], userID)
	return r.updateLikeCount(s, (*domain.Comment).IncrementLikes)
}

func (r *commentRepository) UnlikeComment(_ context.Context, commentID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := r.likes[commentID]
	i := slices.Index(users, userID)
	if i < 0 {
		return nil
	}
	r.likes[commentID] = slices.Delete(users, i, i+1)

	s, ok := r.comments[commentID]
	if !ok {
		return nil
	}
	return r.updateLikeCount(s, (*domain.Comment).DecrementLikes)
}

// updateLikeCount runs the counter change through the aggregate so the
// non-negative invariant is enforced in one place.
func (r *commentRepository) updateLikeCount(s domain.CommentSnapshot, apply func(*domain.Comment)) error {
	c, err := domain.RestoreComment(s)
	if err != nil {
		return domain.NewRepositoryError("restore comment", err)
	}
	apply(c)
	s.LikeCount = c.LikeCount()
	r.comments[s.ID] = s
	return nil
}

func (r *commentRepository) GetCommentLikes(_ context.Context, commentID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string{}, r.likes[commentID]...), nil
}

func (r *commentRepository) GetReplyCount(_ context.Context, commentID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.byParent[commentID])), nil
}

func (r *commentRepository) GetProductRatings(_ context.Context, productID string) ([]domain.CommentRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]domain.CommentRating, 0)
	for id := range r.byProduct[productID] {
		s := r.comments[id]
		if s.ParentID != "" || s.Rating == nil {
			continue
		}
		rating, err := domain.NewCommentRating(*s.Rating)
		if err != nil {
			return nil, domain.NewRepositoryError("restore rating", err)
		}
		res = append(res, rating)
	}
	return res, nil
}

func (r *commentRepository) page(ids map[string]struct{}, keep func(domain.CommentSnapshot) bool, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	p, err := p.Normalize()
	if err != nil {
		return domain.PagedResult[*domain.Comment]{}, err
	}

	rows := make([]domain.CommentSnapshot, 0, len(ids))
	for id := range ids {
		s, ok := r.comments[id]
		if !ok || (keep != nil && !keep(s)) {
			continue
		}
		rows = append(rows, s)
	}
	slices.SortFunc(rows, func(a, b domain.CommentSnapshot) int {
		c := compareBy(a, b, p.SortBy)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if p.SortDirection == domain.SortDesc {
			return -c
		}
		return c
	})

	total := int64(len(rows))
	start := min(p.Offset(), len(rows))
	end := min(start+p.PageSize, len(rows))

	items := make([]*domain.Comment, 0, end-start)
	for _, s := range rows[start:end] {
		c, err := domain.RestoreComment(s)
		if err != nil {
			return domain.PagedResult[*domain.Comment]{}, domain.NewRepositoryError("restore comment", err)
		}
		items = append(items, c)
	}
	return domain.NewPagedResult(items, total, p), nil
}

func compareBy(a, b domain.CommentSnapshot, field domain.SortField) int {
	switch field {
	case domain.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case domain.SortByLikeCount:
		return cmp.Compare(a.LikeCount, b.LikeCount)
	case domain.SortByRating:
		return cmp.Compare(ratingOf(a), ratingOf(b))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func ratingOf(s domain.CommentSnapshot) int {
	if s.Rating == nil {
		return 0
	}
	return *s.Rating
}

func addIndex(index map[string]map[string]struct{}, key, id string) {
	set, ok := index[key]
	if !ok {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[id] = struct{}{}
}
