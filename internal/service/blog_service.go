package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	MsgBlogNotFound  = "Blog not found"
	MsgDraftHidden   = "You do not have permission to view this draft"
	slugAttempts     = 3
	maxSlugBaseRunes = 60
)

type BlogService struct {
	blogs  repository.BlogRepository
	access *AccessControl
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewBlogService(blogs repository.BlogRepository, access *AccessControl, log logrus.FieldLogger) *BlogService {
	return &BlogService{blogs: blogs, access: access, log: log, now: time.Now}
}

type CreateBlogInput struct {
	AuthorID uuid.UUID
	Title    string
	Content  string
	Banner   domain.Banner
	Status   domain.BlogStatus
}

type UpdateBlogInput struct {
	Title   *string
	Content *string
	Banner  *domain.Banner
	Status  *domain.BlogStatus
}

type ListBlogsInput struct {
	ViewerID uuid.UUID
	AuthorID *uuid.UUID
	Limit    int
	Offset   int
}

func (s *BlogService) Create(ctx context.Context, input CreateBlogInput) (*domain.Blog, error) {
	blog := &domain.Blog{
		Title:    input.Title,
		Content:  input.Content,
		Banner:   datatypes.NewJSONType(input.Banner),
		AuthorID: input.AuthorID,
		Status:   domain.BlogStatusDraft,
	}
	if input.Status == domain.BlogStatusPublished {
		blog.Publish(s.now())
	}

	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		blog.ID = uuid.New()
		blog.Slug = GenerateSlug(input.Title)
		err = s.blogs.Create(ctx, blog)
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, domain.NewServerError("failed to create blog", err)
	}

	s.log.WithFields(logrus.Fields{"blogId": blog.ID, "slug": blog.Slug, "authorId": blog.AuthorID}).
		Info("New blog created")
	return blog, nil
}

// List returns blogs visible to the viewer. Plain users and anonymous
// viewers only see published blogs, except an author listing their own.
func (s *BlogService) List(ctx context.Context, input ListBlogsInput) ([]*domain.Blog, int64, error) {
	filter := repository.BlogListFilter{
		AuthorID: input.AuthorID,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}

	ownListing := input.AuthorID != nil && input.ViewerID != uuid.Nil && *input.AuthorID == input.ViewerID
	if !ownListing && !s.access.RoleOf(ctx, input.ViewerID).IsAdmin() {
		filter.PublishedOnly = true
	}

	blogs, total, err := s.blogs.List(ctx, filter)
	if err != nil {
		return nil, 0, domain.NewServerError("failed to list blogs", err)
	}
	return blogs, total, nil
}

func (s *BlogService) GetBySlug(ctx context.Context, viewerID uuid.UUID, slug string) (*domain.Blog, error) {
	blog, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !blog.IsPublished() && blog.AuthorID != viewerID && !s.access.RoleOf(ctx, viewerID).IsAdmin() {
		s.log.WithFields(logrus.Fields{"userId": viewerID, "slug": slug}).Warn("User tried to access a draft blog")
		return nil, domain.NewAuthorizationError(MsgDraftHidden)
	}
	return blog, nil
}

func (s *BlogService) Update(ctx context.Context, actorID uuid.UUID, slug string, input UpdateBlogInput) (*domain.Blog, error) {
	blog, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.access.OwnerOrAdmin(ctx, actorID, blog, "update"); err != nil {
		return nil, err
	}

	if input.Title != nil {
		blog.Title = *input.Title
	}
	if input.Content != nil {
		blog.Content = *input.Content
	}
	if input.Banner != nil {
		blog.Banner = datatypes.NewJSONType(*input.Banner)
	}
	if input.Status != nil {
		if *input.Status == domain.BlogStatusPublished {
			blog.Publish(s.now())
		} else {
			blog.Status = *input.Status
		}
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, domain.NewServerError("failed to update blog", err)
	}

	s.log.WithFields(logrus.Fields{"blogId": blog.ID, "userId": actorID}).Info("Blog updated successfully")
	return blog, nil
}

// Delete removes the blog along with its comments and likes.
func (s *BlogService) Delete(ctx context.Context, actorID, blogID uuid.UUID) error {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFoundError(MsgBlogNotFound)
		}
		return domain.NewServerError("failed to load blog", err)
	}
	if err := s.access.OwnerOrAdmin(ctx, actorID, blog, "delete"); err != nil {
		return err
	}

	if err := s.blogs.Delete(ctx, blogID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFoundError(MsgBlogNotFound)
		}
		return domain.NewServerError("failed to delete blog", err)
	}

	s.log.WithFields(logrus.Fields{"blogId": blogID, "userId": actorID}).Info("Blog deleted successfully")
	return nil
}

func (s *BlogService) findBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	blog, err := s.blogs.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError(MsgBlogNotFound)
		}
		return nil, domain.NewServerError("failed to load blog", err)
	}
	return blog, nil
}

// GenerateSlug lowercases the title, collapses every run of non-alphanumeric
// characters into a single hyphen and appends a short random suffix.
func GenerateSlug(title string) string {
	var b strings.Builder
	hyphen := false
	runes := 0
	for _, r := range strings.ToLower(title) {
		if runes >= maxSlugBaseRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			hyphen = false
			runes++
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
			runes++
		}
	}

	base := strings.Trim(b.String(), "-")
	if base == "" {
		base = "blog"
	}
	return base + "-" + randomHex(3)
}
