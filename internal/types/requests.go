package types

import "github.com/bitebot/backend/internal/models"

// RegisterRequest represents the request body for registering a user
type RegisterRequest struct {
	Name          string   `json:"name" validate:"required,min=3,max=50"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,password"`
	Role          string   `json:"role" validate:"omitempty,oneof=USER CHEF"`
	Cuisine       []string `json:"cuisine" validate:"required,min=1,dive,cuisine"`
	DietaryLabels []string `json:"dietaryLabels" validate:"omitempty,dive,dietary"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents the request body for changing a password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

// UpdateProfileRequest lists every profile field a user may change. A nil
// field is left as is. Chef fields are only accepted from chefs.
type UpdateProfileRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=3,max=50"`
	Bio           *string   `json:"bio" validate:"omitempty,max=500"`
	DietaryLabels *[]string `json:"dietaryLabels" validate:"omitempty,dive,dietary"`
	Allergens     *[]string `json:"allergens" validate:"omitempty,dive,allergen"`
	Cuisine       *[]string `json:"cuisine" validate:"omitempty,dive,cuisine"`

	Education         *string   `json:"education" validate:"omitempty,max=255"`
	Experience        *string   `json:"experience" validate:"omitempty,max=255"`
	ExternalLinks     *[]string `json:"externalLinks" validate:"omitempty,dive,url"`
	SubscriptionPrice *float64  `json:"subscriptionPrice" validate:"omitempty,gte=0"`
}

// HasChefFields reports whether any chef-only field is set
func (r *UpdateProfileRequest) HasChefFields() bool {
	return r.Education != nil || r.Experience != nil || r.ExternalLinks != nil || r.SubscriptionPrice != nil
}

// IsEmpty reports whether the request changes nothing
func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.Name == nil && r.Bio == nil && r.DietaryLabels == nil &&
		r.Allergens == nil && r.Cuisine == nil && !r.HasChefFields()
}

// IngredientInput is one ingredient line of a recipe request
type IngredientInput struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Quantity    float64  `json:"quantity" validate:"gt=0"`
	Unit        string   `json:"unit" validate:"required,max=50"`
	MarketPrice *float64 `json:"marketPrice" validate:"omitempty,gte=0"`
}

// StepInput is one step of a recipe request. Images are uploaded alongside
// the request and matched to steps by position.
type StepInput struct {
	StepNo      int    `json:"stepNo" validate:"gte=1"`
	Instruction string `json:"instruction" validate:"required"`
}

// RecipeRequest is the body for creating or replacing a recipe
type RecipeRequest struct {
	Title              string             `json:"title" validate:"required,max=255"`
	Description        string             `json:"description" validate:"required"`
	Cuisine            string             `json:"cuisine" validate:"required,max=100"`
	Ingredients        []IngredientInput  `json:"ingredients" validate:"required,min=1,dive"`
	Steps              []StepInput        `json:"steps" validate:"required,min=1,dive"`
	DietaryLabels      []string           `json:"dietaryLabels" validate:"omitempty,dive,dietary"`
	TotalCookingTime   int                `json:"totalCookingTime" validate:"gte=1"`
	Servings           int                `json:"servings" validate:"gte=1"`
	ExternalMediaLinks []models.MediaLink `json:"externalMediaLinks" validate:"omitempty,dive"`
	IsPremium          bool               `json:"isPremium"`
}

// ReviewRequest is the body for reviewing a recipe
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Message string `json:"message" validate:"max=1000"`
}

// SearchToolArgs are the arguments the chat agent passes to the search tool
type SearchToolArgs struct {
	Query         string   `json:"query,omitempty"`
	Cuisine       string   `json:"cuisine,omitempty"`
	Ingredients   []string `json:"ingredients,omitempty"`
	DietaryLabels []string `json:"dietaryLabels,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}
