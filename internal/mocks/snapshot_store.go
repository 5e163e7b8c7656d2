package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

// MockSnapshotStore es un mock de testify para verificar qué lecturas/escrituras ocurren.
type MockSnapshotStore struct {
	mock.Mock
}

var _ sharedDomain.SnapshotStore = (*MockSnapshotStore)(nil)

func (m *MockSnapshotStore) Save(ctx context.Context, name string, items []sharedDomain.Record) error {
	args := m.Called(ctx, name, items)
	return args.Error(0)
}

func (m *MockSnapshotStore) Load(ctx context.Context, name string) (*sharedDomain.Snapshot, error) {
	args := m.Called(ctx, name)
	snap, _ := args.Get(0).(*sharedDomain.Snapshot)
	return snap, args.Error(1)
}

func (m *MockSnapshotStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
