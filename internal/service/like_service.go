package service

import (
	"context"
	"errors"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	MsgInvalidResourceType = `Invalid resource type. Must be "blog" or "comment"`
	MsgLikeConflict        = "Like already recorded"
)

type LikeService struct {
	likes     repository.LikeRepository
	blogs     repository.BlogRepository
	comments  repository.CommentRepository
	publisher EventPublisher
	log       logrus.FieldLogger
}

func NewLikeService(
	likes repository.LikeRepository,
	blogs repository.BlogRepository,
	comments repository.CommentRepository,
	publisher EventPublisher,
	log logrus.FieldLogger,
) *LikeService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &LikeService{
		likes:     likes,
		blogs:     blogs,
		comments:  comments,
		publisher: publisher,
		log:       log,
	}
}

type ToggleResult struct {
	ResourceType domain.ResourceType
	ResourceID   uuid.UUID
	IsLiked      bool
	LikesCount   int64
}

// Toggle flips the caller's like on a blog or comment. The delete is tried
// first; only when there was nothing to delete is a like inserted. Two racing
// likes from the same user are settled by the unique index and the loser gets
// a conflict.
func (s *LikeService) Toggle(ctx context.Context, userID uuid.UUID, resourceType string, resourceID uuid.UUID) (*ToggleResult, error) {
	rt, err := domain.ParseResourceType(resourceType)
	if err != nil {
		return nil, domain.NewValidationError(MsgInvalidResourceType, map[string]string{"resourceType": MsgInvalidResourceType})
	}

	target := domain.LikeTarget{Type: rt, ID: resourceID}
	topic, err := s.topicOf(ctx, target)
	if err != nil {
		return nil, err
	}

	removed, err := s.likes.Unlike(ctx, target, userID)
	if err != nil {
		return nil, domain.NewServerError("failed to remove like", err)
	}

	liked := false
	if !removed {
		if err := s.likes.Like(ctx, target, userID); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicate):
				s.log.WithFields(logrus.Fields{"userId": userID, "resourceId": resourceID}).
					Warn("Concurrent like lost the race")
				return nil, domain.NewConflictError(MsgLikeConflict)
			case errors.Is(err, repository.ErrNotFound):
				return nil, notFound(rt)
			}
			return nil, domain.NewServerError("failed to record like", err)
		}
		liked = true
	}

	result := &ToggleResult{ResourceType: rt, ResourceID: resourceID, IsLiked: liked}

	count, err := s.likes.LikesCount(ctx, target)
	if err != nil {
		// The like itself is committed; only the echo of the counter is lost.
		s.log.WithError(err).WithField("resourceId", resourceID).Warn("Failed to read likes count after commit")
		return result, nil
	}
	result.LikesCount = count

	action := "Unliked"
	if liked {
		action = "Liked"
	}
	s.log.WithFields(logrus.Fields{
		"userId":       userID,
		"resourceType": rt,
		"resourceId":   resourceID,
		"likesCount":   count,
	}).Info(action + " " + string(rt))

	s.publisher.PublishCounter(CounterEvent{
		Topic:        topic,
		ResourceType: rt,
		ResourceID:   resourceID,
		LikesCount:   &count,
	})
	return result, nil
}

// topicOf checks the target exists and returns the blog it belongs to.
func (s *LikeService) topicOf(ctx context.Context, target domain.LikeTarget) (uuid.UUID, error) {
	switch target.Type {
	case domain.ResourceBlog:
		blog, err := s.blogs.GetByID(ctx, target.ID)
		if err != nil {
			return uuid.Nil, s.lookupError(err, target.Type)
		}
		return blog.ID, nil
	default:
		comment, err := s.comments.GetByID(ctx, target.ID)
		if err != nil {
			return uuid.Nil, s.lookupError(err, target.Type)
		}
		return comment.BlogID, nil
	}
}

func (s *LikeService) lookupError(err error, rt domain.ResourceType) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(rt)
	}
	return domain.NewServerError("failed to load "+string(rt), err)
}

func notFound(rt domain.ResourceType) error {
	if rt == domain.ResourceComment {
		return domain.NewNotFoundError(MsgCommentNotFound)
	}
	return domain.NewNotFoundError(MsgBlogNotFound)
}
