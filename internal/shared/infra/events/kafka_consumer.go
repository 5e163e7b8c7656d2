package events

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler define la interfaz que debe cumplir cualquier consumidor de eventos.
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, payload []byte)
}

// MessageReader es la parte de *kafka.Reader que usa el adaptador.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// ConsumerAdapter es el "oído" que escucha en Kafka.
type ConsumerAdapter struct {
	reader  MessageReader
	handler MessageHandler
	log     *zap.Logger
}

func NewConsumerAdapter(reader MessageReader, handler MessageHandler, log *zap.Logger) *ConsumerAdapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConsumerAdapter{
		reader:  reader,
		handler: handler,
		log:     log,
	}
}

// Run consume mensajes hasta que se cancele el contexto. Es bloqueante.
func (c *ConsumerAdapter) Run(ctx context.Context) {
	c.log.Info("🎧 Iniciando consumidor de Kafka...")
	for {
		// ReadMessage es una llamada bloqueante.
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			// Si el contexto se cancela, el error es normal y salimos limpiamente.
			if ctx.Err() != nil {
				c.log.Info("Consumidor de Kafka detenido.")
				return
			}
			c.log.Error("Error al leer mensaje de Kafka", zap.Error(err))
			continue // Continuamos con el siguiente mensaje
		}

		c.handler.HandleMessage(ctx, string(msg.Key), msg.Value)
	}
}

// Start lanza Run en una goroutine.
func (c *ConsumerAdapter) Start(ctx context.Context) {
	go c.Run(ctx)
}
