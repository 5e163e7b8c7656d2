package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/vetquery/internal/shared/infra/platform/bus"
)

// MessageWriter es la parte de *kafka.Writer que usa el publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer MessageWriter
	log    *zap.Logger
}

func NewKafkaPublisher(writer MessageWriter, log *zap.Logger) *KafkaPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaPublisher{writer: writer, log: log}
}

// Publish envuelve el evento en un IntegrationEvent y lo escribe en el topic del writer.
func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	envelope, err := NewIntegrationEvent(event)
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	var key []byte
	if keyer, ok := event.(sharedBus.Keyer); ok {
		key = []byte(keyer.PartitionKey())
	}

	msg := kafka.Message{
		Key:   key,
		Value: data,
	}
	if envelope.Type != "" {
		msg.Headers = []kafka.Header{{Key: "type", Value: []byte(envelope.Type)}}
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Error publishing to Kafka", zap.Error(err))
		return err
	}

	p.log.Debug("Event published successfully", zap.String("type", envelope.Type), zap.ByteString("key", key))
	return nil
}

// Verificación estática
var _ sharedBus.EventBus = (*KafkaPublisher)(nil)
