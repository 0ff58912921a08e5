package messaging

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer publishes dashboard usage events. Publishing is fire and
// forget; a broker outage never blocks a dashboard response.
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// UsageEvent records one served dashboard query and the filter state that
// produced it.
type UsageEvent struct {
	RequestID     string            `json:"request_id"`
	Endpoint      string            `json:"endpoint"`
	ActiveFilters map[string]string `json:"active_filters,omitempty"`
	RestaurantIDs []int             `json:"restaurant_ids,omitempty"`
	ServedAt      time.Time         `json:"served_at"`
}

// Publish sends a usage event asynchronously. Safe to call on a nil
// producer when Kafka is disabled.
func (kp *KafkaProducer) Publish(event UsageEvent) {
	if kp == nil {
		return
	}

	go func() {
		jsonData, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal usage event: %v", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		message := kafka.Message{
			Key:   []byte(event.Endpoint),
			Value: jsonData,
		}
		if err := kp.writer.WriteMessages(ctx, message); err != nil {
			log.Printf("Failed to publish usage event: %v", err)
		}
	}()
}

func (kp *KafkaProducer) Close() {
	if kp == nil {
		return
	}
	kp.writer.Close()
}
