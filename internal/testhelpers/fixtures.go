package testhelpers

import (
	"testing"
	"time"

	"github.com/bitebot/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateUser inserts a user with the given role. Chefs get an empty chef
// profile.
func CreateUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	id := uuid.New()
	user := &models.User{
		ID:           id,
		Email:        id.String()[:8] + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
		Name:         "User " + id.String()[:4],
	}
	if role == models.RoleChef {
		user.ChefProfile = &models.ChefProfile{UserID: id}
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// RecipeOption customises a fixture recipe
type RecipeOption func(*models.Recipe)

func WithCookingTime(minutes int) RecipeOption {
	return func(r *models.Recipe) { r.TotalCookingTime = minutes }
}

func WithCreatedAt(at time.Time) RecipeOption {
	return func(r *models.Recipe) { r.CreatedAt = at.UTC() }
}

func WithPremium() RecipeOption {
	return func(r *models.Recipe) { r.IsPremium = true }
}

func WithCuisine(cuisine string) RecipeOption {
	return func(r *models.Recipe) { r.Cuisine = cuisine }
}

func WithTitle(title string) RecipeOption {
	return func(r *models.Recipe) { r.Title = title }
}

func WithDescription(description string) RecipeOption {
	return func(r *models.Recipe) { r.Description = description }
}

func WithLabels(labels ...string) RecipeOption {
	return func(r *models.Recipe) { r.SetLabels(labels) }
}

// WithPrices sets one ingredient per price; nil leaves the price unset
func WithPrices(prices ...*float64) RecipeOption {
	return func(r *models.Recipe) {
		r.Ingredients = nil
		for i, p := range prices {
			r.Ingredients = append(r.Ingredients, models.Ingredient{
				Position:    i,
				Name:        "ingredient",
				Quantity:    1,
				Unit:        "pc",
				MarketPrice: p,
			})
		}
	}
}

// WithIngredients sets unpriced ingredients with the given names
func WithIngredients(names ...string) RecipeOption {
	return func(r *models.Recipe) {
		r.Ingredients = nil
		for i, n := range names {
			r.Ingredients = append(r.Ingredients, models.Ingredient{Position: i, Name: n, Quantity: 1, Unit: "pc"})
		}
	}
}

// CreateRecipe inserts a recipe owned by chefID with one ingredient and one
// step unless options say otherwise.
func CreateRecipe(t *testing.T, db *gorm.DB, chefID uuid.UUID, opts ...RecipeOption) *models.Recipe {
	t.Helper()
	r := &models.Recipe{
		ID:               uuid.New(),
		Title:            "Recipe",
		Description:      "A recipe",
		Cuisine:          "italian",
		ChefID:           chefID,
		TotalCookingTime: 25,
		Servings:         2,
		Thumbnail:        models.Image{ID: "thumb", URL: "https://cdn.example/thumb.jpg"},
		Ingredients:      []models.Ingredient{{Position: 0, Name: "salt", Quantity: 1, Unit: "pinch"}},
		Steps:            []models.Step{{StepNo: 1, Instruction: "Cook"}},
	}
	for _, opt := range opts {
		opt(r)
	}
	for i := range r.DietaryLabels {
		r.DietaryLabels[i].RecipeID = r.ID
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return r
}

// AddReview inserts a review with the given rating
func AddReview(t *testing.T, db *gorm.DB, recipeID, userID uuid.UUID, rating int) {
	t.Helper()
	if err := db.Create(&models.Review{RecipeID: recipeID, UserID: userID, Rating: rating}).Error; err != nil {
		t.Fatalf("failed to create review: %v", err)
	}
}

// AddLikes inserts n likes from fresh user ids
func AddLikes(t *testing.T, db *gorm.DB, recipeID uuid.UUID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := db.Create(&models.RecipeLike{RecipeID: recipeID, UserID: uuid.New()}).Error; err != nil {
			t.Fatalf("failed to create like: %v", err)
		}
	}
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// FailOnTable makes every create and delete on table fail with err. It
// simulates the second half of a paired write failing.
func FailOnTable(t *testing.T, db *gorm.DB, table string, err error) {
	t.Helper()
	hook := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			tx.AddError(err)
		}
	}
	name := "testhelpers:fail_" + table
	if e := db.Callback().Create().Before("gorm:create").Register(name, hook); e != nil {
		t.Fatalf("failed to register create hook: %v", e)
	}
	if e := db.Callback().Delete().Before("gorm:delete").Register(name, hook); e != nil {
		t.Fatalf("failed to register delete hook: %v", e)
	}
	t.Cleanup(func() {
		_ = db.Callback().Create().Remove(name)
		_ = db.Callback().Delete().Remove(name)
	})
}

// FailReads makes every query on db fail with err
func FailReads(t *testing.T, db *gorm.DB, err error) {
	t.Helper()
	hook := func(tx *gorm.DB) { tx.AddError(err) }
	const name = "testhelpers:fail_reads"
	if e := db.Callback().Query().Before("gorm:query").Register(name, hook); e != nil {
		t.Fatalf("failed to register query hook: %v", e)
	}
	if e := db.Callback().Row().Before("gorm:row").Register(name, hook); e != nil {
		t.Fatalf("failed to register row hook: %v", e)
	}
	t.Cleanup(func() {
		_ = db.Callback().Query().Remove(name)
		_ = db.Callback().Row().Remove(name)
	})
}
