package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/config"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/events"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/segmentio/kafka-go"
	"io"
	"log/slog"
	"time"
)

type Consumer struct {
	reader *kafka.Reader
	log    *slog.Logger
}

// NewConsumer joins the configured consumer group. Without a group id every
// consumer reads partition 0 from the newest offset, so each gallery sees
// every event.
func NewConsumer(kafkaCfg *config.Kafka, log *slog.Logger) (*Consumer, error) {
	if !kafkaCfg.Enabled() {
		return nil, fmt.Errorf("consumer.NewConsumer: no kafka brokers configured")
	}

	readerCfg := kafka.ReaderConfig{
		Brokers:  kafkaCfg.Brokers,
		Topic:    kafkaCfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	}

	if kafkaCfg.GroupID != "" {
		readerCfg.GroupID = kafkaCfg.GroupID
		readerCfg.CommitInterval = time.Second
		readerCfg.StartOffset = kafka.LastOffset
	}

	reader := kafka.NewReader(readerCfg)

	if kafkaCfg.GroupID == "" {
		if err := reader.SetOffset(kafka.LastOffset); err != nil {
			_ = reader.Close()
			return nil, fmt.Errorf("consumer.NewConsumer: %w", err)
		}
	}

	return &Consumer{
		reader: reader,
		log:    log,
	}, nil
}

// ReadEvents blocks until ctx is done, passing every decoded event to handler.
// Malformed messages and handler errors are logged and skipped.
func (c *Consumer) ReadEvents(ctx context.Context, handler func(context.Context, events.Event) error) {
	c.log.Info("kafka consumer started", slog.String("topic", c.reader.Config().Topic))

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				c.log.Info("kafka consumer stopped")
				return
			}
			c.log.Error("error reading message from kafka", sl.Err(err))

			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		c.log.Debug(
			"message received",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
		)

		var event events.Event
		if err = json.Unmarshal(m.Value, &event); err != nil {
			c.log.Warn("skipping malformed event", sl.Err(err))
			continue
		}

		if err = handler(ctx, event); err != nil {
			c.log.Error("error handling event", slog.String("type", string(event.Type)), sl.Err(err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
