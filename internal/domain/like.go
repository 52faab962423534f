package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResourceType names the kinds of content a like can point at.
type ResourceType string

const (
	ResourceBlog    ResourceType = "blog"
	ResourceComment ResourceType = "comment"
)

func ParseResourceType(s string) (ResourceType, error) {
	rt := ResourceType(strings.ToLower(strings.TrimSpace(s)))
	switch rt {
	case ResourceBlog, ResourceComment:
		return rt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidResourceType, s)
	}
}

// LikeTarget identifies one likeable resource.
type LikeTarget struct {
	Type ResourceType
	ID   uuid.UUID
}

// Like references exactly one live Blog or Comment. Uniqueness of
// (blog_id, user_id) and (comment_id, user_id) is enforced by partial unique
// indexes created in the postgres migration.
type Like struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BlogID    *uuid.UUID `json:"blogId,omitempty" gorm:"type:uuid;index;check:chk_likes_single_target,(blog_id IS NULL) <> (comment_id IS NULL)"`
	Blog      *Blog      `json:"-" gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
	CommentID *uuid.UUID `json:"commentId,omitempty" gorm:"type:uuid;index"`
	Comment   *Comment   `json:"-" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewLike builds a like record for target.
func NewLike(target LikeTarget, userID uuid.UUID) *Like {
	like := &Like{ID: uuid.New(), UserID: userID}
	id := target.ID
	switch target.Type {
	case ResourceBlog:
		like.BlogID = &id
	case ResourceComment:
		like.CommentID = &id
	}
	return like
}
