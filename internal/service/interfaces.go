package service

import (
	"context"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/query"
	"github.com/bitebot/backend/internal/types"
	"github.com/google/uuid"
)

// Actor is the authenticated caller of a mutating operation
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req *types.LoginRequest) (*models.User, string, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *types.ChangePasswordRequest) error
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(userID uuid.UUID, role models.Role) (string, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Query(ctx context.Context, params query.Params) (*types.RecipeListResponse, error)
	Get(ctx context.Context, recipeID, requesterID uuid.UUID) (*types.RecipeResponse, error)
	Create(ctx context.Context, actor Actor, req *types.RecipeRequest, thumbnail *Upload, stepImages []Upload) (*types.RecipeResponse, error)
	Update(ctx context.Context, actor Actor, recipeID uuid.UUID, req *types.RecipeRequest) (*types.RecipeResponse, error)
	Delete(ctx context.Context, actor Actor, recipeID uuid.UUID) error
	AddReview(ctx context.Context, userID, recipeID uuid.UUID, req *types.ReviewRequest) (*models.Review, error)
}

// ILikeService defines the paired like toggle
type ILikeService interface {
	Toggle(ctx context.Context, userID, recipeID uuid.UUID) (*types.LikeResponse, error)
}

// ISubscriptionService defines the paired subscription edges
type ISubscriptionService interface {
	Subscribe(ctx context.Context, userID, chefID uuid.UUID) error
	Unsubscribe(ctx context.Context, userID, chefID uuid.UUID) error
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error)
	GetPublicProfile(ctx context.Context, userID uuid.UUID) (*types.PublicProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.ProfileResponse, error)
	ChangeAvatar(ctx context.Context, userID uuid.UUID, file *Upload) (models.Image, error)
	GetFavourites(ctx context.Context, userID uuid.UUID) ([]models.RecipeListItem, error)
}

// ISearchToolService defines the chat search tool
type ISearchToolService interface {
	SearchRecipes(ctx context.Context, args *types.SearchToolArgs) ([]models.RecipeSummary, error)
}
