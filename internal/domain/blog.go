package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

func (s BlogStatus) IsValid() bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

func ParseBlogStatus(s string) (BlogStatus, error) {
	st := BlogStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlogStatus, s)
	}
	return st, nil
}

// Banner describes an image that already lives in external storage.
type Banner struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Owned is implemented by resources that carry an author reference and can
// therefore be checked with the owner-or-admin rule.
type Owned interface {
	OwnerID() uuid.UUID
	ResourceName() string
}

type Blog struct {
	ID            uuid.UUID                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title         string                     `json:"title" gorm:"size:180;not null"`
	Slug          string                     `json:"slug" gorm:"uniqueIndex;not null"`
	Content       string                     `json:"content" gorm:"type:text;not null"`
	Banner        datatypes.JSONType[Banner] `json:"banner" gorm:"type:jsonb"`
	AuthorID      uuid.UUID                  `json:"authorId" gorm:"type:uuid;not null;index"`
	Author        *User                      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	ViewsCount    int64                      `json:"viewsCount" gorm:"not null;default:0"`
	LikesCount    int64                      `json:"likesCount" gorm:"not null;default:0"`
	CommentsCount int64                      `json:"commentsCount" gorm:"not null;default:0"`
	Status        BlogStatus                 `json:"status" gorm:"type:varchar(16);not null;default:'draft';index"`
	PublishedAt   *time.Time                 `json:"publishedAt,omitempty"`
	CreatedAt     time.Time                  `json:"createdAt"`
	UpdatedAt     time.Time                  `json:"updatedAt"`
}

func (b *Blog) OwnerID() uuid.UUID   { return b.AuthorID }
func (b *Blog) ResourceName() string { return "blog" }

func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

// Publish moves the blog to published, stamping PublishedAt only the first time.
func (b *Blog) Publish(now time.Time) {
	b.Status = BlogStatusPublished
	if b.PublishedAt == nil {
		b.PublishedAt = &now
	}
}
