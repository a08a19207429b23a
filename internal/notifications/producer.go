package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"concerto/pkg/logger"
)

// Producer publishes reservation events to Kafka. It satisfies the
// reservation engine's Publisher interface; publish failures are logged
// and never fail the request that triggered them.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// ProducerConfig contains configuration for the Kafka producer
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	RetryMax     int
	Timeout      time.Duration
	RequiredAcks sarama.RequiredAcks
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig(brokers []string, topic string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:      brokers,
		Topic:        topic,
		RetryMax:     3,
		Timeout:      10 * time.Second,
		RequiredAcks: sarama.WaitForAll,
	}
}

// NewProducer creates a Kafka producer for reservation events
func NewProducer(config *ProducerConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keeps each concert's events on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    config.Topic,
		log:      logger.GetDefault(),
	}, nil
}

func (p *Producer) PublishReserved(ctx context.Context, userID, concertID string, seats []string) {
	p.publish(ctx, &ReservationEvent{
		Type:      EventTypeReserved,
		UserID:    userID,
		ConcertID: concertID,
		Seats:     seats,
		At:        time.Now(),
	})
}

func (p *Producer) PublishCancelled(ctx context.Context, userID, concertID string, released int) {
	p.publish(ctx, &ReservationEvent{
		Type:      EventTypeCancelled,
		UserID:    userID,
		ConcertID: concertID,
		Released:  released,
		At:        time.Now(),
	})
}

func (p *Producer) publish(ctx context.Context, event *ReservationEvent) {
	messageBytes, err := event.ToJSON()
	if err != nil {
		p.log.ErrorWithContext(ctx, "failed to marshal reservation event", err, map[string]interface{}{
			"event_type": event.Type,
		})
		return
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: event.At,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.log.ErrorWithContext(ctx, "failed to publish reservation event", err, map[string]interface{}{
			"event_type": event.Type,
			"concert_id": event.ConcertID,
		})
		return
	}

	p.log.DebugWithContext(ctx, "published reservation event", map[string]interface{}{
		"event_type": event.Type,
		"concert_id": event.ConcertID,
		"partition":  partition,
		"offset":     offset,
	})
}

// Close shuts down the underlying Kafka producer
func (p *Producer) Close() error {
	return p.producer.Close()
}
