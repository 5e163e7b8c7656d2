package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	sharedBus "github.com/davicafu/vetquery/internal/shared/infra/platform/bus"
)

// MockPublisher permite definir expectativas sobre Publish.
type MockPublisher struct {
	mock.Mock
}

var _ sharedBus.EventBus = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// DummyPublisher guarda los eventos publicados sin verificar nada.
type DummyPublisher struct {
	mu     sync.Mutex
	Events []interface{}
}

var _ sharedBus.EventBus = (*DummyPublisher)(nil)

func (p *DummyPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return nil
}

func (p *DummyPublisher) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Events)
}
