package seed

import (
	"context"
	"testing"
	"time"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()

	res, err := Run(ctx, db, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Users)
	assert.Equal(t, len(recipes), res.Recipes)

	var chef models.User
	require.NoError(t, db.Preload("ChefProfile").Where("email = ?", chefAccount.email).First(&chef).Error)
	assert.Equal(t, models.RoleChef, chef.Role)
	assert.NotNil(t, chef.ChefProfile)

	var subs, mirrors, likes, favourites, reviews int64
	db.Model(&models.UserSubscription{}).Count(&subs)
	db.Model(&models.ChefSubscriber{}).Count(&mirrors)
	db.Model(&models.RecipeLike{}).Count(&likes)
	db.Model(&models.Favourite{}).Count(&favourites)
	db.Model(&models.Review{}).Count(&reviews)
	assert.Equal(t, int64(1), subs)
	assert.Equal(t, subs, mirrors)
	assert.Equal(t, int64(2), likes)
	assert.Equal(t, likes, favourites)
	assert.Equal(t, int64(2), reviews)
}

func TestRunTwice(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	ctx := context.Background()

	_, err := Run(ctx, db, zerolog.Nop())
	require.NoError(t, err)

	res, err := Run(ctx, db, zerolog.Nop())
	assert.ErrorIs(t, err, ErrAlreadySeeded)
	assert.Zero(t, res.Users)

	var count int64
	db.Model(&models.Recipe{}).Count(&count)
	assert.Equal(t, int64(len(recipes)), count)
}

func TestBuild(t *testing.T) {
	r := build(recipes[0], uuid.New(), time.Now().UTC())
	assert.Equal(t, []string{"vegetarian", "dairy-free"}, r.Labels())
	assert.Equal(t, 1, r.Steps[0].StepNo)
	assert.Equal(t, 2, r.Ingredients[2].Position)
	assert.Contains(t, r.Thumbnail.URL, "Green+Curry")
}
