package postgres

import (
	"context"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Blog", "User").Create(comment).Error; err != nil {
			return translate(err)
		}
		return adjustCounter(tx, &domain.Blog{}, comment.BlogID, "comments_count", 1)
	})
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByBlogID(ctx context.Context, blogID uuid.UUID) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("blog_id = ?", blogID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) List(ctx context.Context, limit, offset int) ([]*domain.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*domain.Comment
	err := r.db.WithContext(ctx).
		Preload("Blog").
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment domain.Comment
		if err := tx.Select("id", "blog_id").First(&comment, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("comment_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Comment{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		// A concurrent delete already took the row and its counter step.
		if result.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound)
		}
		return adjustCounter(tx, &domain.Blog{}, comment.BlogID, "comments_count", -1)
	})
}

// adjustCounter applies a single atomic arithmetic update to one counter
// column. It never reads the row back, so racing adjustments cannot overwrite
// each other. A missing parent row fails with repository.ErrNotFound so the
// surrounding transaction rolls back.
func adjustCounter(tx *gorm.DB, model any, id uuid.UUID, column string, delta int) error {
	result := tx.Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
