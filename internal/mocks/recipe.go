package mocks

import (
	"context"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/query"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) Query(ctx context.Context, params query.Params) (*types.RecipeListResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeListResponse), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, recipeID, requesterID uuid.UUID) (*types.RecipeResponse, error) {
	args := m.Called(ctx, recipeID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Create(ctx context.Context, actor service.Actor, req *types.RecipeRequest, thumbnail *service.Upload, stepImages []service.Upload) (*types.RecipeResponse, error) {
	args := m.Called(ctx, actor, req, thumbnail, stepImages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, actor service.Actor, recipeID uuid.UUID, req *types.RecipeRequest) (*types.RecipeResponse, error) {
	args := m.Called(ctx, actor, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, actor service.Actor, recipeID uuid.UUID) error {
	args := m.Called(ctx, actor, recipeID)
	return args.Error(0)
}

func (m *MockRecipeService) AddReview(ctx context.Context, userID, recipeID uuid.UUID, req *types.ReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, userID, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

// MockLikeService is a mock implementation of the like toggle
type MockLikeService struct {
	mock.Mock
}

var _ service.ILikeService = (*MockLikeService)(nil)

func (m *MockLikeService) Toggle(ctx context.Context, userID, recipeID uuid.UUID) (*types.LikeResponse, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.LikeResponse), args.Error(1)
}
