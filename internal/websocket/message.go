package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/service"
)

type MessageType string

const (
	MessageTypeSubscribed     MessageType = "SUBSCRIBED"
	MessageTypeCounterUpdated MessageType = "COUNTER_UPDATED"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

type SubscribedPayload struct {
	Topic string `json:"topic"`
}

// CounterPayload carries whichever counters changed. Absent counters are
// omitted rather than sent as zero.
type CounterPayload struct {
	BlogID        string              `json:"blogId"`
	ResourceType  domain.ResourceType `json:"resourceType"`
	ResourceID    string              `json:"resourceId"`
	LikesCount    *int64              `json:"likesCount,omitempty"`
	CommentsCount *int64              `json:"commentsCount,omitempty"`
}

func counterPayload(event service.CounterEvent) CounterPayload {
	return CounterPayload{
		BlogID:        event.Topic.String(),
		ResourceType:  event.ResourceType,
		ResourceID:    event.ResourceID.String(),
		LikesCount:    event.LikesCount,
		CommentsCount: event.CommentsCount,
	}
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
