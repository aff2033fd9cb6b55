package util

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer обертка над Kafka writer для отправки событий
// Отправляет события каталога и склада в топик sweet_events,
// на который подписан Analytics Service
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer создает новый Kafka producer
// brokers - список брокеров Kafka в формате ["host:port"]
// topic - имя топика для событий (sweet_events)
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		// Покупки должны инвалидировать кеш аналитики быстро,
		// поэтому батч небольшой и с коротким таймаутом
		BatchSize:    10,
		BatchTimeout: 100 * time.Millisecond,
	}

	return &KafkaProducer{writer: writer}
}

// PublishMessage отправляет сообщение в Kafka
// key - SweetID для партиционирования: события одной сладости сохраняют порядок
// value - JSON сериализованное событие SweetEvent
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close закрывает Kafka writer и освобождает ресурсы
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
