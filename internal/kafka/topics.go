package kafka

import (
	"context"
	"log"
	"net"
	"strconv"
	"strings"

	"github.com/segmentio/kafka-go"
)

// EnsureTopicsExist creates the given topics if they don't already exist.
func EnsureTopicsExist(brokers []string, topics []string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		topicConfigs := []kafka.TopicConfig{
			{
				Topic:             topic,
				NumPartitions:     1,
				ReplicationFactor: 1,
			},
		}

		err = controllerConn.CreateTopics(topicConfigs...)
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			log.Printf("kafka: error creating topic %s: %v", topic, err)
			// keep trying the remaining topics
		}
	}

	return nil
}

// CreateTopicIfNotExists creates a single topic if it doesn't exist.
func CreateTopicIfNotExists(brokers []string, topic string) error {
	return EnsureTopicsExist(brokers, []string{topic})
}

// ListTopics returns all topics visible on the first broker.
func ListTopics(brokers []string) ([]string, error) {
	conn, err := kafka.DialContext(context.Background(), "tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return nil, err
	}

	topicMap := make(map[string]bool)
	for _, p := range partitions {
		topicMap[p.Topic] = true
	}

	var topics []string
	for topic := range topicMap {
		topics = append(topics, topic)
	}

	return topics, nil
}
