package producers

import (
	"OT2Connect/internal/config"
	"OT2Connect/internal/interfaces"
	"context"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

// NewStatusProducer создает продюсер событий статуса. Если брокеры не
// настроены, события публикуются только во внутреннее хранилище.
func NewStatusProducer(cfg *config.AppConfig) (interfaces.DataProducer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return &NopProducer{}, nil
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBrokers...),
		Topic:    cfg.KafkaTopic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{writer: writer}, nil
}

// Produce отправляет сообщение в Kafka
func (p *KafkaProducer) Produce(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   key,
			Value: value,
		},
	)
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NopProducer используется при отключённой интеграции с Kafka.
type NopProducer struct{}

func (p *NopProducer) Produce(ctx context.Context, key, value []byte) error { return nil }

func (p *NopProducer) Close() error { return nil }
