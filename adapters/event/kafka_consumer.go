package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/internal/application/service"
	"github.com/khoahotran/profile-dashboard/internal/config"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

const (
	defaultConsumerBackoff     = time.Second
	defaultConsumerMaxAttempts = 5
)

// messageReader is the subset of *kafka.Reader the consumer needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ProfileEventProcessor interface {
	Execute(ctx context.Context, evt service.ProfileEvent) error
}

// ProfileEventConsumer commits a message only after it was processed or
// found undecodable. A message that keeps failing stops the consumer with
// its offset uncommitted, so the group redelivers it after a restart.
type ProfileEventConsumer struct {
	reader      messageReader
	processor   ProfileEventProcessor
	logger      logger.Logger
	backoff     time.Duration
	maxAttempts int
}

func NewProfileEventConsumer(cfg config.Config, processor ProfileEventProcessor, log logger.Logger) (*ProfileEventConsumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicProfileEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})

	log.Info("Initialize Kafka Consumer successfully.",
		zap.String("topic", TopicProfileEvents),
		zap.String("group_id", cfg.Kafka.GroupID))

	return &ProfileEventConsumer{
		reader:      reader,
		processor:   processor,
		logger:      log,
		backoff:     defaultConsumerBackoff,
		maxAttempts: defaultConsumerMaxAttempts,
	}, nil
}

// Run consumes until ctx is cancelled (returns nil) or a message exhausts
// its attempts (returns the last processing error).
func (c *ProfileEventConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			if !c.wait(ctx) {
				return nil
			}
			continue
		}

		msgLog := c.logger.With(
			zap.String("topic", msg.Topic),
			zap.String("key", string(msg.Key)),
			zap.Int64("offset", msg.Offset))
		msgLog.Debug("Received message")

		var evt service.ProfileEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			msgLog.Error("Failed to unmarshal event, skipping", err)
			c.commit(ctx, msg, msgLog)
			continue
		}

		if err := c.process(ctx, evt, msgLog); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("process profile event at offset %d: %w", msg.Offset, err)
		}
		c.commit(ctx, msg, msgLog)
	}
}

func (c *ProfileEventConsumer) process(ctx context.Context, evt service.ProfileEvent, log logger.Logger) error {
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err = c.processor.Execute(ctx, evt); err == nil {
			return nil
		}
		log.Error("Failed to process profile event", err,
			zap.String("email", evt.Email),
			zap.Int("attempt", attempt))
		if attempt < c.maxAttempts && !c.wait(ctx) {
			return ctx.Err()
		}
	}
	return err
}

func (c *ProfileEventConsumer) wait(ctx context.Context) bool {
	t := time.NewTimer(c.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *ProfileEventConsumer) commit(ctx context.Context, msg kafka.Message, log logger.Logger) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}

func (c *ProfileEventConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", err)
	}
	c.logger.Info("Closed Kafka Consumer")
}
