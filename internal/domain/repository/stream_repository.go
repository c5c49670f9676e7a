package repository

import (
	"context"

	"github.com/ais-service/internal/domain"
)

// StreamRepository - Redis Streams access for index refresh events
type StreamRepository interface {
	// ConsumeStream reads messages of a consumer group until ctx is done
	ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error)

	AckMessage(ctx context.Context, stream, group, messageID string) error

	// CreateConsumerGroup creates the group (and the stream); an existing group is not an error
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// PublishToStream stores data as JSON under the "data" field and returns the message id
	PublishToStream(ctx context.Context, stream string, data interface{}) (string, error)
}
