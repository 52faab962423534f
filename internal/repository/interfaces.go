package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetRole(ctx context.Context, id uuid.UUID) (domain.Role, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	ExistsByTokenHash(ctx context.Context, tokenHash string) (bool, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type BlogListFilter struct {
	AuthorID      *uuid.UUID
	PublishedOnly bool
	Limit         int
	Offset        int
}

type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Blog, error)
	List(ctx context.Context, filter BlogListFilter) ([]*domain.Blog, int64, error)
	Update(ctx context.Context, blog *domain.Blog) error
	// Delete removes the blog together with its comments and every like that
	// points at the blog or one of those comments.
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	// Create inserts the comment and bumps the parent blog's comments_count.
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByBlogID(ctx context.Context, blogID uuid.UUID) ([]*domain.Comment, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Comment, int64, error)
	// Delete removes the comment and its likes and decrements the parent
	// blog's comments_count.
	Delete(ctx context.Context, id uuid.UUID) error
}

type LikeRepository interface {
	// Like inserts a like and increments the target's likes_count. A second
	// like for the same (target, user) fails with ErrDuplicate.
	Like(ctx context.Context, target domain.LikeTarget, userID uuid.UUID) error
	// Unlike removes the like and decrements likes_count. It reports false when
	// there was nothing to remove.
	Unlike(ctx context.Context, target domain.LikeTarget, userID uuid.UUID) (bool, error)
	LikesCount(ctx context.Context, target domain.LikeTarget) (int64, error)
}

type Repositories struct {
	User    UserRepository
	Session SessionRepository
	Blog    BlogRepository
	Comment CommentRepository
	Like    LikeRepository
}
