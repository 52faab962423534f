package domain

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BlogID     uuid.UUID `json:"blogId" gorm:"type:uuid;not null;index"`
	Blog       *Blog     `json:"blog,omitempty" gorm:"foreignKey:BlogID"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	User       *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Content    string    `json:"content" gorm:"size:1000;not null"`
	LikesCount int64     `json:"likesCount" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (c *Comment) OwnerID() uuid.UUID   { return c.UserID }
func (c *Comment) ResourceName() string { return "comment" }
