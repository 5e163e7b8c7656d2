package events

import (
	"context"
	"sync"

	sharedBus "github.com/davicafu/vetquery/internal/shared/infra/platform/bus"
)

// InMemoryEventBus reparte eventos de tipo T a suscriptores locales.
// El envío no bloquea: un suscriptor con el buffer lleno pierde el evento, salvo los
// eventos marcados con Prioritize, que desplazan al más antiguo del buffer.
type InMemoryEventBus[T any] struct {
	subscribers []chan T
	mu          sync.RWMutex
	closed      bool
	topic       string // Identificador del topic que maneja este bus
	priority    func(T) bool
}

func NewInMemoryEventBus[T any](topic string) *InMemoryEventBus[T] {
	return &InMemoryEventBus[T]{
		subscribers: make([]chan T, 0),
		topic:       topic,
	}
}

// Prioritize indica qué eventos no se pueden perder aunque el suscriptor vaya atrasado.
func (b *InMemoryEventBus[T]) Prioritize(keep func(T) bool) *InMemoryEventBus[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.priority = keep
	return b
}

func (b *InMemoryEventBus[T]) Topic() string {
	return b.topic
}

// Emit entrega el evento en orden a todos los suscriptores.
func (b *InMemoryEventBus[T]) Emit(event T) {
	// Exclusivo: entre vaciar un hueco y escribir en él no puede colarse otro Emit.
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	urgent := b.priority != nil && b.priority(event)
	for _, subChan := range b.subscribers {
		select {
		case subChan <- event:
			continue
		default:
		}
		if !urgent {
			continue
		}
		for sent := false; !sent; {
			select {
			case <-subChan: // se descarta el más antiguo
			default:
			}
			select {
			case subChan <- event:
				sent = true
			default:
			}
		}
	}
}

// Publish cumple bus.EventBus. Eventos de otro tipo se ignoran.
func (b *InMemoryEventBus[T]) Publish(ctx context.Context, event interface{}) error {
	if evt, ok := event.(T); ok {
		b.Emit(evt)
	}
	return nil
}

// Subscribe suscribe un nuevo oyente a este bus.
func (b *InMemoryEventBus[T]) Subscribe(bufferSize int) <-chan T {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Sin buffer no habría hueco que liberar para los eventos prioritarios.
	subChan := make(chan T, max(bufferSize, 1))
	if b.closed {
		close(subChan)
		return subChan
	}
	b.subscribers = append(b.subscribers, subChan)
	return subChan
}

// Close cierra todos los canales de suscripción. Es idempotente.
func (b *InMemoryEventBus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, subChan := range b.subscribers {
		close(subChan)
	}
	b.subscribers = nil
}

var _ sharedBus.EventBus = (*InMemoryEventBus[struct{}])(nil)
