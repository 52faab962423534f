package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SocialLinks struct {
	Website   string `json:"website,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	X         string `json:"x,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type User struct {
	ID           uuid.UUID                       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string                          `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Email        string                          `json:"email" gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string                          `json:"-" gorm:"not null"`
	Role         Role                            `json:"role" gorm:"type:varchar(10);not null;default:'user'"`
	FirstName    string                          `json:"firstName,omitempty" gorm:"size:20"`
	LastName     string                          `json:"lastName,omitempty" gorm:"size:20"`
	SocialLinks  datatypes.JSONType[SocialLinks] `json:"socialLinks" gorm:"type:jsonb"`
	CreatedAt    time.Time                       `json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
}

// Session is a live refresh-token record. Only the SHA-256 digest of the
// token is stored; possession of the raw token plus a matching row is what
// makes a refresh token usable.
type Session struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	TokenHash string    `json:"-" gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
