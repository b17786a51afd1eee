package types

import (
	"github.com/bitebot/backend/internal/models"
	"github.com/google/uuid"
)

// RecipeListResponse is the body returned by the recipe listing endpoints
type RecipeListResponse struct {
	Count   int                     `json:"count"`
	Recipes []models.RecipeListItem `json:"recipes"`
}

// RecipeResponse is a full recipe with its derived fields
type RecipeResponse struct {
	models.Recipe
	DietaryLabels []string `json:"dietaryLabels"`
	TotalPrice    float64  `json:"totalPrice"`
	AvgRating     float64  `json:"avgRating"`
	LikeCountNum  int64    `json:"likeCountNum"`
}

// LikeResponse reports the state of a like after a toggle
type LikeResponse struct {
	RecipeID     uuid.UUID `json:"recipeId"`
	Liked        bool      `json:"liked"`
	LikeCountNum int64     `json:"likeCountNum"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ProfileResponse is a user profile with its subscription set
type ProfileResponse struct {
	*models.User
	Subscribed  []uuid.UUID `json:"subscribed"`
	Favourites  []uuid.UUID `json:"favourites"`
	Subscribers int64       `json:"subscribers,omitempty"`
}

// PublicProfile is the part of a profile anyone may see
type PublicProfile struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Bio         string              `json:"bio"`
	Role        models.Role         `json:"role"`
	Avatar      models.Image        `json:"avatar"`
	ChefProfile *models.ChefProfile `json:"chefProfile,omitempty"`
	Subscribers int64               `json:"subscribers"`
	RecipeCount int64               `json:"recipeCount"`
}

// SearchToolResponse is returned to the chat agent
type SearchToolResponse struct {
	Recipes []models.RecipeSummary `json:"recipes"`
}
