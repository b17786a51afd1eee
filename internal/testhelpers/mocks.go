package testhelpers

import (
	"context"
	"io"

	"github.com/bitebot/backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockBlobStore is a mock implementation of storage.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, name, contentType string, r io.Reader) (models.Image, error) {
	args := m.Called(ctx, name, contentType, r)
	return args.Get(0).(models.Image), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
