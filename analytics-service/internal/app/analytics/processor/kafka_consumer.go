package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sweetshop/analytics-service/internal/app/analytics/entity"
	"sweetshop/analytics-service/internal/app/analytics/service"
	"sweetshop/pkg/logger"
	"sweetshop/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaConsumer слушает события из топика sweet_events
// Любое событие каталога или склада означает, что закешированные
// сводки устарели, поэтому consumer просто сбрасывает кеш
type KafkaConsumer struct {
	reader       *kafka.Reader
	analyticsSvc service.AnalyticsServiceInterface
	groupID      string
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	analyticsSvc service.AnalyticsServiceInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    minBytes,
		MaxBytes:    maxBytes,
		StartOffset: kafka.LastOffset,
		// Настройки для автоматического коммита offset
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:       reader,
		analyticsSvc: analyticsSvc,
		groupID:      groupID,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error().Err(err).Msg("failed to fetch message")
				metrics.KafkaErrors.WithLabelValues("analytics-service", c.reader.Config().Topic, "consume").Inc()
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, message); err != nil {
				logger.Error().Err(err).Msg("failed to process message")
				// Offset не коммитим, сообщение будет перечитано
			} else {
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					logger.Error().Err(err).Msg("failed to commit message")
				}
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.SweetEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal sweet event: %w", err)
	}

	logger.Info().
		Str("event_type", event.EventType).
		Str("sweet_id", event.SweetID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received sweet event")

	metrics.KafkaMessagesConsumed.WithLabelValues("analytics-service", message.Topic, c.groupID).Inc()

	// Тип события не важен: каталог изменился - сводки пересчитываем
	if err := c.analyticsSvc.InvalidateCache(ctx); err != nil {
		return fmt.Errorf("failed to invalidate summaries: %w", err)
	}

	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
