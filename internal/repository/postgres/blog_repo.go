package postgres

import (
	"context"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *blogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	return translate(r.db.WithContext(ctx).Omit("Author").Create(blog).Error)
}

func (r *blogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	var blog domain.Blog
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&blog, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &blog, nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	var blog domain.Blog
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&blog, "slug = ?", slug).Error
	if err != nil {
		return nil, translate(err)
	}
	return &blog, nil
}

func (r *blogRepository) List(ctx context.Context, filter repository.BlogListFilter) ([]*domain.Blog, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Blog{})
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.PublishedOnly {
		query = query.Where("status = ?", domain.BlogStatusPublished)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []*domain.Blog
	err := query.
		Preload("Author").
		Order("published_at DESC NULLS LAST").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

// Update persists editable fields only. Counters are never written from a
// loaded copy of the row; they change through atomic increments alone.
func (r *blogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	err := r.db.WithContext(ctx).
		Model(blog).
		Select("title", "content", "banner", "status", "published_at", "updated_at").
		Updates(blog).Error
	return translate(err)
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&domain.Comment{}).Select("id").Where("blog_id = ?", id)
		if err := tx.Where("blog_id = ? OR comment_id IN (?)", id, commentIDs).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Blog{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound)
		}
		return nil
	})
}
