package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	kafkaWriter *kafka.Writer
	kafkaTopic  string
)

func kafkaBrokers() []string {
	brokers := strings.Split(os.Getenv("KAFKA_BROKERS"), ",")
	if len(brokers) == 1 && brokers[0] == "" {
		brokers = []string{"localhost:9092"}
	}
	return brokers
}

// InitializeKafka sets up the shared writer for booking events.
func InitializeKafka() {
	kafkaTopic = os.Getenv("KAFKA_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "booking-events"
	}

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(kafkaBrokers()...),
		Topic:        kafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	log.Printf("✅ Kafka writer ready: topic=%s brokers=%v\n", kafkaTopic, kafkaBrokers())
}

// PublishEvent marshals the payload and writes it to the booking-events topic.
// Failures are logged, never fatal - the event stream is best-effort.
func PublishEvent(ctx context.Context, key string, payload interface{}) error {
	if kafkaWriter == nil {
		return fmt.Errorf("kafka writer not initialized")
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal kafka payload: %w", err)
	}

	err = kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		fmt.Printf("❌ Kafka publish failed (key=%s): %v\n", key, err)
		return err
	}
	return nil
}

// NewEventReader creates a consumer for the booking-events topic.
func NewEventReader(groupID string) *kafka.Reader {
	topic := kafkaTopic
	if topic == "" {
		topic = "booking-events"
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kafkaBrokers(),
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}
