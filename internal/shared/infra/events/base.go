package events

import (
	"encoding/json"
	"time"

	sharedBus "github.com/davicafu/vetquery/internal/shared/infra/platform/bus"
)

// Base de todos los eventos de integración
type IntegrationEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento
}

// NewIntegrationEvent envuelve un evento. Si no implementa bus.Typed el tipo queda vacío.
func NewIntegrationEvent(event interface{}) (IntegrationEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return IntegrationEvent{}, err
	}
	var eventType string
	if typed, ok := event.(sharedBus.Typed); ok {
		eventType = typed.EventType()
	}
	return IntegrationEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}
