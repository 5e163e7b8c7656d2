package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	sharedDomain "github.com/davicafu/vetquery/internal/shared/domain"
)

type MockDownloader struct {
	mock.Mock
}

func (m *MockDownloader) Download(ctx context.Context, entity sharedDomain.Entity, filter sharedDomain.FilterSpec) (int, error) {
	args := m.Called(ctx, entity, filter)
	return args.Int(0), args.Error(1)
}
