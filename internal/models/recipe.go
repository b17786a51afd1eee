package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is a blob store reference
type Image struct {
	ID  string `gorm:"size:255" json:"id"`
	URL string `gorm:"size:1024" json:"url"`
}

type Recipe struct {
	ID                 uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt          time.Time            `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
	Title              string               `gorm:"size:255;not null" json:"title"`
	Description        string               `gorm:"type:text;not null" json:"description"`
	Cuisine            string               `gorm:"size:100;not null;index" json:"cuisine"`
	ChefID             uuid.UUID            `gorm:"type:uuid;not null;index" json:"chefId"`
	TotalCookingTime   int                  `gorm:"not null" json:"totalCookingTime"`
	Servings           int                  `gorm:"not null" json:"servings"`
	IsPremium          bool                 `gorm:"not null;default:false;index" json:"isPremium"`
	Thumbnail          Image                `gorm:"embedded;embeddedPrefix:thumbnail_" json:"thumbnail"`
	ExternalMediaLinks MediaLinks           `gorm:"type:jsonb" json:"externalMediaLinks"`
	Ingredients        []Ingredient         `gorm:"foreignKey:RecipeID" json:"ingredients"`
	Steps              []Step               `gorm:"foreignKey:RecipeID" json:"steps"`
	DietaryLabels      []RecipeDietaryLabel `gorm:"foreignKey:RecipeID" json:"-"`
	Reviews            []Review             `gorm:"foreignKey:RecipeID" json:"reviews"`
	Likes              []RecipeLike         `gorm:"foreignKey:RecipeID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Labels returns the dietary labels as plain strings
func (r *Recipe) Labels() []string {
	out := make([]string, len(r.DietaryLabels))
	for i, l := range r.DietaryLabels {
		out[i] = l.Label
	}
	return out
}

// SetLabels replaces the dietary label set
func (r *Recipe) SetLabels(labels []string) {
	r.DietaryLabels = make([]RecipeDietaryLabel, 0, len(labels))
	for _, l := range NormalizeLabels(labels) {
		r.DietaryLabels = append(r.DietaryLabels, RecipeDietaryLabel{RecipeID: r.ID, Label: l})
	}
}

// Ingredient is one ordered line of a recipe. MarketPrice is optional and
// counts as zero in price totals.
type Ingredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position    int       `gorm:"not null" json:"-"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `gorm:"size:50" json:"unit"`
	MarketPrice *float64  `json:"marketPrice"`
}

func (Ingredient) TableName() string {
	return "recipe_ingredients"
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Step struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	StepNo      int       `gorm:"not null" json:"stepNo"`
	Instruction string    `gorm:"type:text;not null" json:"instruction"`
	Image       Image     `gorm:"embedded;embeddedPrefix:image_" json:"image"`
}

func (Step) TableName() string {
	return "recipe_steps"
}

func (s *Step) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type RecipeDietaryLabel struct {
	RecipeID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Label    string    `gorm:"size:50;primaryKey;index"`
}

func (RecipeDietaryLabel) TableName() string {
	return "recipe_dietary_labels"
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"userId"`
	Name      string    `gorm:"size:255" json:"name"`
	Rating    int       `gorm:"not null" json:"rating"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Review) TableName() string {
	return "recipe_reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeLike is one member of a recipe's like set. Its mirror is Favourite.
type RecipeLike struct {
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

func (RecipeLike) TableName() string {
	return "recipe_likes"
}

// RecipeListItem is one row of a query engine result: the stored card
// fields plus the fields computed per query.
type RecipeListItem struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Cuisine          string    `json:"cuisine"`
	ChefID           uuid.UUID `json:"chefId"`
	TotalCookingTime int       `json:"totalCookingTime"`
	Servings         int       `json:"servings"`
	IsPremium        bool      `json:"isPremium"`
	ThumbnailID      string    `json:"-"`
	ThumbnailURL     string    `json:"-"`
	Thumbnail        Image     `gorm:"-" json:"thumbnail"`
	CreatedAt        time.Time `json:"createdAt"`
	TotalPrice       float64   `json:"totalPrice"`
	AvgRating        float64   `json:"avgRating"`
	LikeCountNum     int64     `json:"likeCountNum"`
}

// RecipeSummary is the projection returned to the chat search tool
type RecipeSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Cuisine      string    `json:"cuisine"`
	ThumbnailID  string    `json:"-"`
	ThumbnailURL string    `json:"-"`
	Thumbnail    Image     `gorm:"-" json:"thumbnail"`
}

// Premium reports whether the recipe is gated
func (r *Recipe) Premium() bool {
	return r.IsPremium
}

// Owner returns the owning chef
func (r *Recipe) Owner() uuid.UUID {
	return r.ChefID
}
