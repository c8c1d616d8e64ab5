package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/config"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/events"
	"github.com/marcoSSantander0/kisscam-fzdomain/internal/lib/logger/sl"
	"github.com/segmentio/kafka-go"
	"log/slog"
	"time"
)

// Producer publishes image events keyed by image id.
type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewProducer(kafkaCfg *config.Kafka, log *slog.Logger) (*Producer, error) {
	if !kafkaCfg.Enabled() {
		return nil, fmt.Errorf("producer.NewProducer: no kafka brokers configured")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(kafkaCfg.Brokers...),
		Topic:                  kafkaCfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		log:    log,
	}, nil
}

func (p *Producer) Publish(ctx context.Context, event events.Event) error {
	const op = "kafka.producer.Publish"

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ImageID),
		Value: value,
		Time:  event.At,
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to send message to kafka", slog.String("topic", p.writer.Topic), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Debug("message sent to kafka",
		slog.String("topic", p.writer.Topic),
		slog.String("type", string(event.Type)),
		slog.String("image_id", event.ImageID),
	)

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
