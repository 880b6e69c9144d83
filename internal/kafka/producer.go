package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

// Publish writes a single message to the given topic. Callers treat failures
// as fire-and-forget: they log and move on, the dispatch is never load-bearing.
func (p *Producer) Publish(topic string, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
