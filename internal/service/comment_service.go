package service

import (
	"context"
	"errors"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const MsgCommentNotFound = "Comment not found"

type CommentService struct {
	comments  repository.CommentRepository
	blogs     repository.BlogRepository
	access    *AccessControl
	publisher EventPublisher
	log       logrus.FieldLogger
}

func NewCommentService(
	comments repository.CommentRepository,
	blogs repository.BlogRepository,
	access *AccessControl,
	publisher EventPublisher,
	log logrus.FieldLogger,
) *CommentService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &CommentService{
		comments:  comments,
		blogs:     blogs,
		access:    access,
		publisher: publisher,
		log:       log,
	}
}

// Create adds a comment to a blog. The blog's comments_count moves in the
// same transaction as the insert.
func (s *CommentService) Create(ctx context.Context, userID, blogID uuid.UUID, content string) (*domain.Comment, error) {
	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError(MsgBlogNotFound)
		}
		return nil, domain.NewServerError("failed to load blog", err)
	}

	comment := &domain.Comment{
		ID:      uuid.New(),
		BlogID:  blogID,
		UserID:  userID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError(MsgBlogNotFound)
		}
		return nil, domain.NewServerError("failed to create comment", err)
	}

	s.log.WithFields(logrus.Fields{"commentId": comment.ID, "blogId": blogID, "userId": userID}).
		Info("New comment created")
	s.publishCommentsCount(ctx, blogID)
	return comment, nil
}

func (s *CommentService) ListByBlogSlug(ctx context.Context, slug string) ([]*domain.Comment, error) {
	blog, err := s.blogs.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewNotFoundError(MsgBlogNotFound)
		}
		return nil, domain.NewServerError("failed to load blog", err)
	}

	comments, err := s.comments.ListByBlogID(ctx, blog.ID)
	if err != nil {
		return nil, domain.NewServerError("failed to list comments", err)
	}
	return comments, nil
}

func (s *CommentService) List(ctx context.Context, limit, offset int) ([]*domain.Comment, int64, error) {
	comments, total, err := s.comments.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, domain.NewServerError("failed to list comments", err)
	}
	return comments, total, nil
}

// Delete removes a comment and its likes. Only the comment's author or an
// admin may do this.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFoundError(MsgCommentNotFound)
		}
		return domain.NewServerError("failed to load comment", err)
	}
	if err := s.access.OwnerOrAdmin(ctx, actorID, comment, "delete"); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewNotFoundError(MsgCommentNotFound)
		}
		return domain.NewServerError("failed to delete comment", err)
	}

	s.log.WithFields(logrus.Fields{"commentId": commentID, "userId": actorID}).Info("Comment deleted successfully")
	s.publishCommentsCount(ctx, comment.BlogID)
	return nil
}

func (s *CommentService) publishCommentsCount(ctx context.Context, blogID uuid.UUID) {
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		s.log.WithError(err).WithField("blogId", blogID).Warn("Failed to read comments count after commit")
		return
	}
	count := blog.CommentsCount
	s.publisher.PublishCounter(CounterEvent{
		Topic:         blogID,
		ResourceType:  domain.ResourceBlog,
		ResourceID:    blogID,
		CommentsCount: &count,
	})
}
