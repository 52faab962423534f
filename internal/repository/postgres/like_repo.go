package postgres

import (
	"context"
	"fmt"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{db: db}
}

// targetColumns maps a like target to its parent model and the foreign key
// column on the likes table.
func targetColumns(target domain.LikeTarget) (any, string, error) {
	switch target.Type {
	case domain.ResourceBlog:
		return &domain.Blog{}, "blog_id", nil
	case domain.ResourceComment:
		return &domain.Comment{}, "comment_id", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", domain.ErrInvalidResourceType, target.Type)
	}
}

func (r *likeRepository) Like(ctx context.Context, target domain.LikeTarget, userID uuid.UUID) error {
	model, _, err := targetColumns(target)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The partial unique index decides which of two racing inserts wins.
		if err := tx.Create(domain.NewLike(target, userID)).Error; err != nil {
			return translate(err)
		}
		return adjustCounter(tx, model, target.ID, "likes_count", 1)
	})
}

func (r *likeRepository) Unlike(ctx context.Context, target domain.LikeTarget, userID uuid.UUID) (bool, error) {
	model, column, err := targetColumns(target)
	if err != nil {
		return false, err
	}

	removed := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where(column+" = ? AND user_id = ?", target.ID, userID).Delete(&domain.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return adjustCounter(tx, model, target.ID, "likes_count", -1)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *likeRepository) LikesCount(ctx context.Context, target domain.LikeTarget) (int64, error) {
	model, _, err := targetColumns(target)
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(model).
		Select("likes_count").
		Where("id = ?", target.ID).
		Scan(&count).Error
	return count, err
}
