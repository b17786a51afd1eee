package testhelpers

import (
	"testing"

	"github.com/bitebot/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSQLite(t *testing.T) {
	db := SetupSQLite(t)

	chef := CreateUser(t, db, models.RoleChef)
	recipe := CreateRecipe(t, db, chef.ID, WithLabels("Vegan", "keto"), WithPrices(Ptr(2.5), nil))

	var loaded models.Recipe
	require.NoError(t, db.Preload("Ingredients").Preload("DietaryLabels").First(&loaded, "id = ?", recipe.ID).Error)
	assert.Len(t, loaded.Ingredients, 2)
	assert.ElementsMatch(t, []string{"vegan", "keto"}, loaded.Labels())

	var profile models.ChefProfile
	require.NoError(t, db.First(&profile, "user_id = ?", chef.ID).Error)
}
