package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/service"
	"github.com/bitebot/backend/internal/testhelpers"
	"github.com/bitebot/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProfileTest(t *testing.T) (*gorm.DB, *testhelpers.MockBlobStore, *service.ProfileService) {
	db := testhelpers.SetupSQLite(t)
	blobs := new(testhelpers.MockBlobStore)
	return db, blobs, service.NewProfileService(db, blobs, zerolog.Nop(), 0)
}

func TestGetProfileIncludesRelations(t *testing.T) {
	db, _, svc := setupProfileTest(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)
	user := testhelpers.CreateUser(t, db, models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, chef.ID)
	require.NoError(t, db.Create(&models.UserSubscription{UserID: user.ID, ChefID: chef.ID}).Error)
	require.NoError(t, db.Create(&models.ChefSubscriber{ChefID: chef.ID, SubscriberID: user.ID}).Error)
	require.NoError(t, db.Create(&models.Favourite{UserID: user.ID, RecipeID: recipe.ID}).Error)
	ctx := context.Background()

	resp, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{chef.ID}, resp.Subscribed)
	assert.Equal(t, []uuid.UUID{recipe.ID}, resp.Favourites)

	resp, err = svc.GetProfile(ctx, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Subscribers)
	assert.NotNil(t, resp.ChefProfile)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestGetPublicProfile(t *testing.T) {
	db, _, svc := setupProfileTest(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)
	testhelpers.CreateRecipe(t, db, chef.ID)
	testhelpers.CreateRecipe(t, db, chef.ID)

	resp, err := svc.GetPublicProfile(context.Background(), chef.ID)
	require.NoError(t, err)
	assert.Equal(t, chef.Name, resp.Name)
	assert.Equal(t, int64(2), resp.RecipeCount)
	assert.Equal(t, int64(0), resp.Subscribers)
}

func TestUpdateProfile(t *testing.T) {
	db, _, svc := setupProfileTest(t)
	user := testhelpers.CreateUser(t, db, models.RoleUser)
	ctx := context.Background()

	resp, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		Bio:           testhelpers.Ptr("Home cook"),
		DietaryLabels: &[]string{"Vegan", "vegan"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Home cook", resp.Bio)
	assert.Equal(t, models.StringArray{"vegan"}, resp.DietaryLabels)
	assert.Equal(t, user.Name, resp.Name)
}

func TestUpdateProfileRejectsChefFieldsForUsers(t *testing.T) {
	db, _, svc := setupProfileTest(t)
	user := testhelpers.CreateUser(t, db, models.RoleUser)
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{Education: testhelpers.Ptr("Culinary school")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{Cuisine: &[]string{"martian"}})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestUpdateChefProfile(t *testing.T) {
	db, _, svc := setupProfileTest(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)

	resp, err := svc.UpdateProfile(context.Background(), chef.ID, &types.UpdateProfileRequest{
		Experience:        testhelpers.Ptr("10 years"),
		SubscriptionPrice: testhelpers.Ptr(4.99),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ChefProfile)
	assert.Equal(t, "10 years", resp.ChefProfile.Experience)
	require.NotNil(t, resp.ChefProfile.SubscriptionPrice)
	assert.InDelta(t, 4.99, *resp.ChefProfile.SubscriptionPrice, 1e-9)
}

func TestChangeAvatarReplacesOldBlob(t *testing.T) {
	db, blobs, svc := setupProfileTest(t)
	user := testhelpers.CreateUser(t, db, models.RoleUser)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{"avatar_id": "old", "avatar_url": "https://cdn/old"}).Error)

	blobs.On("Upload", mock.Anything, "me.png", "image/png", mock.Anything).Return(models.Image{ID: "new", URL: "https://cdn/new"}, nil)
	blobs.On("Delete", mock.Anything, "old").Return(nil)

	img, err := svc.ChangeAvatar(context.Background(), user.ID, &service.Upload{Name: "me.png", ContentType: "image/png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Equal(t, "new", img.ID)
	blobs.AssertExpectations(t)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "https://cdn/new", stored.Avatar.URL)
}

func TestChangeAvatarUploadFailureKeepsOldAvatar(t *testing.T) {
	db, blobs, svc := setupProfileTest(t)
	user := testhelpers.CreateUser(t, db, models.RoleUser)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{"avatar_id": "old", "avatar_url": "https://cdn/old"}).Error)

	blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(models.Image{}, errors.New("bucket unavailable"))

	_, err := svc.ChangeAvatar(context.Background(), user.ID, &service.Upload{Name: "me.png", Body: strings.NewReader("png")})
	assert.True(t, apperrors.IsKind(err, apperrors.KindDependency))
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "old", stored.Avatar.ID)
}

func TestGetFavourites(t *testing.T) {
	db, _, svc := setupProfileTest(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)
	user := testhelpers.CreateUser(t, db, models.RoleUser)
	liked := testhelpers.CreateRecipe(t, db, chef.ID)
	testhelpers.CreateRecipe(t, db, chef.ID)
	require.NoError(t, db.Create(&models.Favourite{UserID: user.ID, RecipeID: liked.ID}).Error)
	require.NoError(t, db.Create(&models.RecipeLike{RecipeID: liked.ID, UserID: user.ID}).Error)

	items, err := svc.GetFavourites(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, liked.ID, items[0].ID)
	assert.Equal(t, int64(1), items[0].LikeCountNum)
}
