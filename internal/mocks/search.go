package mocks

import (
	"context"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockSearchToolService is a mock implementation of the chat search tool
type MockSearchToolService struct {
	mock.Mock
}

var _ service.ISearchToolService = (*MockSearchToolService)(nil)

func (m *MockSearchToolService) SearchRecipes(ctx context.Context, args *types.SearchToolArgs) ([]models.RecipeSummary, error) {
	ret := m.Called(ctx, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]models.RecipeSummary), ret.Error(1)
}
