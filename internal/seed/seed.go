// Package seed fills an empty database with demo accounts and recipes.
package seed

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Password is shared by every seeded account
const Password = "Seed!Pass123"

// ErrAlreadySeeded is returned when the demo chef already owns recipes
var ErrAlreadySeeded = errors.New("database already seeded")

// Result counts what Run created
type Result struct {
	Users   int
	Recipes int
}

type account struct {
	name    string
	email   string
	role    models.Role
	cuisine []string
	dietary []string
}

var (
	chefAccount  = account{"Demo Chef", "chef@bitebot.dev", models.RoleChef, []string{"italian", "thai"}, nil}
	dinerAccount = account{"Demo Diner", "diner@bitebot.dev", models.RoleUser, []string{"thai"}, []string{"vegetarian"}}
)

type recipeSeed struct {
	title       string
	description string
	cuisine     string
	minutes     int
	servings    int
	premium     bool
	ageDays     int
	labels      []string
	ingredients []models.Ingredient
	steps       []string
}

func price(v float64) *float64 { return &v }

var recipes = []recipeSeed{
	{
		title: "Green Curry", description: "Fragrant coconut curry with seasonal vegetables",
		cuisine: "thai", minutes: 35, servings: 4, ageDays: 3,
		labels: []string{"vegetarian", "dairy-free"},
		ingredients: []models.Ingredient{
			{Name: "Coconut milk", Quantity: 400, Unit: "ml", MarketPrice: price(1.8)},
			{Name: "Green curry paste", Quantity: 3, Unit: "tbsp", MarketPrice: price(2.2)},
			{Name: "Thai basil", Quantity: 1, Unit: "bunch"},
		},
		steps: []string{"Fry the curry paste", "Add coconut milk and vegetables", "Finish with basil"},
	},
	{
		title: "Pad Kra Pao", description: "Quick holy basil stir fry",
		cuisine: "thai", minutes: 15, servings: 2, ageDays: 10,
		labels: []string{"high-protein"},
		ingredients: []models.Ingredient{
			{Name: "Minced chicken", Quantity: 300, Unit: "g", MarketPrice: price(3.5)},
			{Name: "Holy basil", Quantity: 1, Unit: "bunch", MarketPrice: price(1)},
		},
		steps: []string{"Stir fry garlic and chilli", "Add chicken", "Toss with basil"},
	},
	{
		title: "Cacio e Pepe", description: "Pecorino, pepper and pasta water",
		cuisine: "italian", minutes: 20, servings: 2, ageDays: 45,
		labels: []string{"vegetarian"},
		ingredients: []models.Ingredient{
			{Name: "Tonnarelli", Quantity: 200, Unit: "g", MarketPrice: price(1.5)},
			{Name: "Pecorino Romano", Quantity: 80, Unit: "g", MarketPrice: price(2.8)},
			{Name: "Black pepper", Quantity: 2, Unit: "tsp"},
		},
		steps: []string{"Boil the pasta", "Emulsify cheese with pasta water", "Toss and serve"},
	},
	{
		title: "Slow Ragu", description: "Sunday ragu braised for hours",
		cuisine: "italian", minutes: 240, servings: 6, ageDays: 1, premium: true,
		labels: []string{"high-protein"},
		ingredients: []models.Ingredient{
			{Name: "Beef shin", Quantity: 1, Unit: "kg", MarketPrice: price(12)},
			{Name: "Passata", Quantity: 700, Unit: "ml", MarketPrice: price(1.4)},
			{Name: "Red wine", Quantity: 250, Unit: "ml", MarketPrice: price(4)},
		},
		steps: []string{"Brown the beef", "Deglaze with wine", "Braise low and slow"},
	},
}

// Run creates the demo chef and diner, the chef's recipes, and a few
// subscriptions, likes and reviews. It returns ErrAlreadySeeded when the
// chef already has recipes.
func Run(ctx context.Context, db *gorm.DB, logger zerolog.Logger) (Result, error) {
	auth := service.NewAuthService(db, "seed", time.Hour, 0)
	var res Result

	chef, created, err := ensureAccount(ctx, db, auth, chefAccount)
	if err != nil {
		return res, err
	}
	if created {
		res.Users++
	}
	diner, created, err := ensureAccount(ctx, db, auth, dinerAccount)
	if err != nil {
		return res, err
	}
	if created {
		res.Users++
	}

	var owned int64
	if err := db.WithContext(ctx).Model(&models.Recipe{}).Where("chef_id = ?", chef.ID).Count(&owned).Error; err != nil {
		return res, err
	}
	if owned > 0 {
		return res, ErrAlreadySeeded
	}

	now := time.Now().UTC()
	ids := make([]uuid.UUID, 0, len(recipes))
	for _, rs := range recipes {
		recipe := build(rs, chef.ID, now)
		if err := db.WithContext(ctx).Create(recipe).Error; err != nil {
			return res, fmt.Errorf("seed recipe %q: %w", rs.title, err)
		}
		logger.Info().Str("recipe", recipe.Title).Msg("seeded recipe")
		ids = append(ids, recipe.ID)
		res.Recipes++
	}

	subs := service.NewSubscriptionService(db, logger, 0)
	if err := subs.Subscribe(ctx, diner.ID, chef.ID); err != nil {
		return res, err
	}
	likes := service.NewLikeService(db, logger, 0)
	reviews := service.NewRecipeService(db, nil, logger, 0)
	for i, id := range ids[:2] {
		if _, err := likes.Toggle(ctx, diner.ID, id); err != nil {
			return res, err
		}
		if _, err := reviews.AddReview(ctx, diner.ID, id, &types.ReviewRequest{Rating: 5 - i, Message: "Made it twice already"}); err != nil {
			return res, err
		}
	}
	return res, nil
}

func ensureAccount(ctx context.Context, db *gorm.DB, auth *service.AuthService, a account) (*models.User, bool, error) {
	user, _, err := auth.Register(ctx, &types.RegisterRequest{
		Name:          a.name,
		Email:         a.email,
		Password:      Password,
		Role:          string(a.role),
		Cuisine:       a.cuisine,
		DietaryLabels: a.dietary,
	})
	if err == nil {
		return user, true, nil
	}
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		return nil, false, fmt.Errorf("seed account %s: %w", a.email, err)
	}

	var existing models.User
	if err := db.WithContext(ctx).Where("email = ?", a.email).First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func build(rs recipeSeed, chefID uuid.UUID, now time.Time) *models.Recipe {
	r := &models.Recipe{
		ID:               uuid.New(),
		CreatedAt:        now.AddDate(0, 0, -rs.ageDays),
		Title:            rs.title,
		Description:      rs.description,
		Cuisine:          rs.cuisine,
		ChefID:           chefID,
		TotalCookingTime: rs.minutes,
		Servings:         rs.servings,
		IsPremium:        rs.premium,
		Thumbnail:        placeholder(rs.title),
	}
	for i, ing := range rs.ingredients {
		ing.Position = i
		r.Ingredients = append(r.Ingredients, ing)
	}
	for i, instruction := range rs.steps {
		r.Steps = append(r.Steps, models.Step{StepNo: i + 1, Instruction: instruction})
	}
	r.SetLabels(rs.labels)
	return r
}

func placeholder(title string) models.Image {
	return models.Image{
		ID:  "seed/" + url.PathEscape(title),
		URL: "https://placehold.co/600x400?text=" + url.QueryEscape(title),
	}
}
