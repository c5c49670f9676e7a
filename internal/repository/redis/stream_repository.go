package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ais-service/internal/domain"
	"github.com/ais-service/internal/domain/repository"
)

const (
	defaultBlockTimeout = time.Second
	readCount           = 10
	// refresh requests are tiny and only the latest matter, the stream is trimmed to roughly this length
	streamMaxLen = 1000
)

type streamRepository struct {
	client       *redis.Client
	blockTimeout time.Duration
	logger       *zap.Logger
}

// NewStreamRepository creates a StreamRepository. blockTimeout bounds a single XREADGROUP call;
// zero means one second.
func NewStreamRepository(client *redis.Client, blockTimeout time.Duration, logger *zap.Logger) repository.StreamRepository {
	if blockTimeout <= 0 {
		blockTimeout = defaultBlockTimeout
	}
	return &streamRepository{
		client:       client,
		blockTimeout: blockTimeout,
		logger:       logger,
	}
}

// CreateConsumerGroup creates the group starting at "$" so only new refresh requests are read.
// MKSTREAM creates the stream when it does not exist yet.
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			r.logger.Debug("Consumer group already exists",
				zap.String("stream", stream),
				zap.String("group", group))
			return nil
		}
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.Info("Consumer group created successfully",
		zap.String("stream", stream),
		zap.String("group", group))
	return nil
}

// ConsumeStream reads messages of the group until ctx is done. The channel is closed on return.
// Entries delivered to this consumer before a restart and never acknowledged are replayed first,
// then only new entries are read.
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	msgChan := make(chan domain.StreamMessage, readCount)

	go func() {
		defer close(msgChan)

		// "0" reads this consumer's pending list, ">" reads undelivered entries
		cursor := "0"
		for ctx.Err() == nil {
			messages, err := r.read(ctx, stream, group, consumer, cursor)
			if err != nil {
				if ctx.Err() != nil {
					break
				}
				r.logger.Error("Failed to read from stream", zap.String("stream", stream), zap.Error(err))
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
				}
				continue
			}

			if cursor != ">" && len(messages) == 0 {
				cursor = ">"
				continue
			}

			for _, msg := range messages {
				if cursor != ">" {
					cursor = msg.ID
				}
				data, ok := msg.Values["data"].(string)
				if !ok {
					r.logger.Warn("Message does not contain 'data' field", zap.String("message_id", msg.ID))
					// nothing to process, do not leave it pending forever
					_ = r.AckMessage(ctx, stream, group, msg.ID)
					continue
				}

				select {
				case msgChan <- domain.StreamMessage{ID: msg.ID, Data: data}:
				case <-ctx.Done():
					return
				}
			}
		}

		r.logger.Info("Stream consumer stopped", zap.String("stream", stream), zap.String("consumer", consumer))
	}()

	return msgChan, nil
}

func (r *streamRepository) read(ctx context.Context, stream, group, consumer, cursor string) ([]redis.XMessage, error) {
	args := &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, cursor},
		Count:    readCount,
		Block:    -1,
	}
	// the pending list is read without blocking; a zero Block would wait forever
	if cursor == ">" {
		args.Block = r.blockTimeout
	}

	result, err := r.client.XReadGroup(ctx, args).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var messages []redis.XMessage
	for _, s := range result {
		messages = append(messages, s.Messages...)
	}
	return messages, nil
}

func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	err := r.client.XAck(ctx, stream, group, messageID).Err()
	if err != nil {
		r.logger.Error("Failed to acknowledge message",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}

	r.logger.Debug("Message acknowledged",
		zap.String("message_id", messageID))
	return nil
}

func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error("Failed to marshal data",
			zap.String("stream", stream),
			zap.Error(err))
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return "", fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", id))
	return id, nil
}
