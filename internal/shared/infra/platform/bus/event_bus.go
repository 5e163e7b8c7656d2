package bus

import "context"

type Keyer interface {
	PartitionKey() string
}

// Typed permite a los adapters etiquetar el sobre del evento.
type Typed interface {
	EventType() string
}

// La semántica de topic/nombre y formato del payload la decides en los adapters.
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}
