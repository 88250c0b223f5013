package mysql

import (
	"context"
	"errors"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/shop-comments/domain"
	"github.com/Guyuepp/shop-comments/internal/repository/mysql/model"
)

// mysqlErrDuplicateEntry is ER_DUP_ENTRY.
const mysqlErrDuplicateEntry = 1062

type commentRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.CommentDBRepository = (*commentRepository)(nil)

// NewCommentRepository 创建数据库操作层
func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{DB: db}
}

func (m *commentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	var row model.Comment
	err := m.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewRepositoryError("find comment", err)
	}
	return toDomain(&row)
}

func (m *commentRepository) FindByProductID(ctx context.Context, productID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	return m.page(ctx, p, func(db *gorm.DB) *gorm.DB {
		return db.Where("product_id = ? AND parent_id IS NULL", productID)
	})
}

func (m *commentRepository) FindRepliesByParentID(ctx context.Context, parentID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	return m.page(ctx, p, func(db *gorm.DB) *gorm.DB {
		return db.Where("parent_id = ?", parentID)
	})
}

func (m *commentRepository) FindByUserID(ctx context.Context, userID string, p domain.Pagination) (domain.PagedResult[*domain.Comment], error) {
	return m.page(ctx, p, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

func (m *commentRepository) page(ctx context.Context, p domain.Pagination, scope func(*gorm.DB) *gorm.DB) (domain.PagedResult[*domain.Comment], error) {
	p, err := p.Normalize()
	if err != nil {
		return domain.PagedResult[*domain.Comment]{}, err
	}

	var total int64
	if err := m.DB.WithContext(ctx).Model(&model.Comment{}).Scopes(scope).Count(&total).Error; err != nil {
		return domain.PagedResult[*domain.Comment]{}, domain.NewRepositoryError("count comments", err)
	}

	var rows []model.Comment
	if total > int64(p.Offset()) {
		desc := p.SortDirection == domain.SortDesc
		err = m.DB.WithContext(ctx).
			Scopes(scope).
			Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn(p.SortBy)}, Desc: desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
			Offset(p.Offset()).
			Limit(p.PageSize).
			Find(&rows).Error
		if err != nil {
			return domain.PagedResult[*domain.Comment]{}, domain.NewRepositoryError("list comments", err)
		}
	}

	items := make([]*domain.Comment, 0, len(rows))
	for i := range rows {
		c, err := toDomain(&rows[i])
		if err != nil {
			return domain.PagedResult[*domain.Comment]{}, err
		}
		items = append(items, c)
	}
	return domain.NewPagedResult(items, total, p), nil
}

func (m *commentRepository) Save(ctx context.Context, c *domain.Comment) error {
	row := model.NewCommentFromDomain(c)
	err := m.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "content", "rating", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return domain.NewRepositoryError("save comment", err)
	}
	return nil
}

func (m *commentRepository) Delete(ctx context.Context, id string) error {
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&model.Comment{}).Where("id = ?", id).Count(&found).Error; err != nil {
			return err
		}
		if found == 0 {
			return domain.ErrNotFound
		}

		ids, err := collectTree(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Comment{}).Error
	})
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return domain.NewRepositoryError("delete comment", err)
}

// FetchTreeIDs returns id followed by the ids of every reply below it.
func (m *commentRepository) FetchTreeIDs(ctx context.Context, id string) ([]string, error) {
	ids, err := collectTree(m.DB.WithContext(ctx), id)
	if err != nil {
		return nil, domain.NewRepositoryError("fetch comment tree", err)
	}
	return ids, nil
}

// collectTree 按层收集整棵回复树
func collectTree(db *gorm.DB, id string) ([]string, error) {
	ids := []string{id}
	frontier := []string{id}
	for len(frontier) > 0 {
		var children []string
		if err := db.Model(&model.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		ids = append(ids, children...)
		frontier = children
	}
	return ids, nil
}

// LikeComment only writes the like record; like_count is refreshed by the sync worker.
func (m *commentRepository) LikeComment(ctx context.Context, commentID, userID string) error {
	var found int64
	if err := m.DB.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", commentID).Count(&found).Error; err != nil {
		return domain.NewRepositoryError("like comment", err)
	}
	if found == 0 {
		return domain.ErrNotFound
	}

	like := &model.CommentLike{
		CommentID: commentID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	err := m.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
	if err != nil && !isDuplicateEntry(err) {
		return domain.NewRepositoryError("like comment", err)
	}
	return nil
}

func (m *commentRepository) UnlikeComment(ctx context.Context, commentID, userID string) error {
	err := m.DB.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&model.CommentLike{}).Error
	if err != nil {
		return domain.NewRepositoryError("unlike comment", err)
	}
	return nil
}

func (m *commentRepository) GetCommentLikes(ctx context.Context, commentID string) ([]string, error) {
	res := make([]string, 0)
	err := m.DB.WithContext(ctx).
		Model(&model.CommentLike{}).
		Where("comment_id = ?", commentID).
		Order("created_at").
		Pluck("user_id", &res).Error
	if err != nil {
		return nil, domain.NewRepositoryError("get comment likes", err)
	}
	return res, nil
}

func (m *commentRepository) GetReplyCount(ctx context.Context, commentID string) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.Comment{}).Where("parent_id = ?", commentID).Count(&count).Error
	if err != nil {
		return 0, domain.NewRepositoryError("count replies", err)
	}
	return count, nil
}

func (m *commentRepository) GetProductRatings(ctx context.Context, productID string) ([]domain.CommentRating, error) {
	var values []int
	err := m.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("product_id = ? AND parent_id IS NULL AND rating IS NOT NULL", productID).
		Pluck("rating", &values).Error
	if err != nil {
		return nil, domain.NewRepositoryError("get product ratings", err)
	}

	res := make([]domain.CommentRating, 0, len(values))
	for _, v := range values {
		r, err := domain.NewCommentRating(v)
		if err != nil {
			return nil, domain.NewRepositoryError("get product ratings", err)
		}
		res = append(res, r)
	}
	return res, nil
}

// RefreshLikeCounts 以 comment_likes 为准重新计算点赞数，返回涉及的商品ID
func (m *commentRepository) RefreshLikeCounts(ctx context.Context, commentIDs []string) ([]string, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var productIDs []string
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range commentIDs {
			var realCount int64
			if err := tx.Model(&model.CommentLike{}).
				Where("comment_id = ?", id).
				Count(&realCount).Error; err != nil {
				return err
			}

			if err := tx.Model(&model.Comment{}).
				Where("id = ?", id).
				UpdateColumn("like_count", realCount).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Comment{}).
			Where("id IN ?", commentIDs).
			Distinct().
			Pluck("product_id", &productIDs).Error
	})
	if err != nil {
		return nil, domain.NewRepositoryError("refresh like counts", err)
	}
	return productIDs, nil
}

func (m *commentRepository) FetchIDs(ctx context.Context, cursor string, limit int) ([]string, error) {
	var ids []string
	err := m.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id > ?", cursor).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, domain.NewRepositoryError("fetch comment ids", err)
	}
	return ids, nil
}

func toDomain(row *model.Comment) (*domain.Comment, error) {
	c, err := row.ToDomain()
	if err != nil {
		return nil, domain.NewRepositoryError("restore comment", err)
	}
	return c, nil
}

func sortColumn(field domain.SortField) string {
	switch field {
	case domain.SortByUpdatedAt:
		return "updated_at"
	case domain.SortByLikeCount:
		return "like_count"
	case domain.SortByRating:
		return "rating"
	default:
		return "created_at"
	}
}

func isDuplicateEntry(err error) bool {
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry
}
