package kafka

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer creates a Kafka consumer for the given topic and group.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Start consumes messages until the context is cancelled, invoking handler for
// each message. Malformed messages are the handler's problem; read errors are
// logged and retried.
func (c *Consumer) Start(ctx context.Context, handler func(key, value []byte)) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			log.Printf("kafka: error reading message: %v", err)
			continue
		}
		handler(msg.Key, msg.Value)
	}
}

// Close gracefully shuts down the Kafka reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
