package service

import (
	"github.com/dom/blog-platform/internal/domain"
	"github.com/google/uuid"
)

// CounterEvent reports the latest engagement counters of a blog or comment.
// Topic is the blog the resource belongs to.
type CounterEvent struct {
	Topic         uuid.UUID
	ResourceType  domain.ResourceType
	ResourceID    uuid.UUID
	LikesCount    *int64
	CommentsCount *int64
}

// EventPublisher fans counter events out to realtime subscribers. Publishing
// must not block the caller.
type EventPublisher interface {
	PublishCounter(event CounterEvent)
}

type nopPublisher struct{}

func (nopPublisher) PublishCounter(CounterEvent) {}
