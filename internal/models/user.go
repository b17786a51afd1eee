package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the account role
type Role string

const (
	RoleUser  Role = "USER"
	RoleChef  Role = "CHEF"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Email         string             `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash  string             `gorm:"not null" json:"-"`
	Role          Role               `gorm:"size:10;not null;default:'USER'" json:"role"`
	Name          string             `gorm:"size:50;not null" json:"name"`
	Bio           string             `gorm:"size:500" json:"bio"`
	Avatar        Image              `gorm:"embedded;embeddedPrefix:avatar_" json:"avatar"`
	DietaryLabels StringArray        `gorm:"type:jsonb" json:"dietaryLabels"`
	Allergens     StringArray        `gorm:"type:jsonb" json:"allergens"`
	Cuisine       StringArray        `gorm:"type:jsonb" json:"cuisine"`
	ChefProfile   *ChefProfile       `gorm:"foreignKey:UserID" json:"chefProfile,omitempty"`
	Subscribed    []UserSubscription `gorm:"foreignKey:UserID" json:"-"`
	Favourites    []Favourite        `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SubscribedChefIDs returns the requester-side subscription set
func (u *User) SubscribedChefIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(u.Subscribed))
	for i, s := range u.Subscribed {
		out[i] = s.ChefID
	}
	return out
}

// FavouriteIDs returns the recipe ids the user has favourited
func (u *User) FavouriteIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(u.Favourites))
	for i, f := range u.Favourites {
		out[i] = f.RecipeID
	}
	return out
}

// ChefProfile holds the fields only chefs carry
type ChefProfile struct {
	UserID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"-"`
	Education         string      `gorm:"size:255" json:"education"`
	Experience        string      `gorm:"size:255" json:"experience"`
	ExternalLinks     StringArray `gorm:"type:jsonb" json:"externalLinks"`
	SubscriptionPrice *float64    `json:"subscriptionPrice"`
	CreatedAt         time.Time   `json:"-"`
	UpdatedAt         time.Time   `json:"-"`
}

func (ChefProfile) TableName() string {
	return "chef_profiles"
}

// UserSubscription is the subscriber side of a subscription edge
type UserSubscription struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChefID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

// ChefSubscriber is the chef side of a subscription edge
type ChefSubscriber struct {
	ChefID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubscriberID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt    time.Time
}

func (ChefSubscriber) TableName() string {
	return "chef_subscribers"
}

// Favourite is the user side of a like. Its mirror is RecipeLike.
type Favourite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

func (Favourite) TableName() string {
	return "favourites"
}

// All lists every model for migrations
func All() []interface{} {
	return []interface{}{
		&User{},
		&ChefProfile{},
		&UserSubscription{},
		&ChefSubscriber{},
		&Favourite{},
		&Recipe{},
		&Ingredient{},
		&Step{},
		&RecipeDietaryLabel{},
		&Review{},
		&RecipeLike{},
	}
}
