package database

import (
	"context"
	"testing"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/search"
	"github.com/bitebot/backend/internal/testhelpers"
	"github.com/bitebot/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func searchIDs(t *testing.T, db *gorm.DB, args types.SearchToolArgs) []uuid.UUID {
	t.Helper()
	out, err := NewSearchExecutor(db).Search(context.Background(), search.Build(args), 5)
	require.NoError(t, err)
	got := make([]uuid.UUID, len(out))
	for i, s := range out {
		got[i] = s.ID
	}
	return got
}

func TestSearchTreatsInputAsLiteral(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)

	literal := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithTitle("Plan a.b soup"))
	testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithTitle("Plan axb soup"))
	percent := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithTitle("100% rye"))
	testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithTitle("1000 rye"))

	assert.Equal(t, []uuid.UUID{literal.ID}, searchIDs(t, db, types.SearchToolArgs{Query: "a.b"}))
	assert.Equal(t, []uuid.UUID{percent.ID}, searchIDs(t, db, types.SearchToolArgs{Query: "100%"}))
}

func TestSearchConditionsAreOred(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)

	byDescription := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithDescription("A creamy RISOTTO"), testhelpers.WithCuisine("french"))
	byCuisine := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCuisine("Thai"))
	byIngredient := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCuisine("greek"), testhelpers.WithIngredients("Feta cheese"))
	byLabel := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCuisine("greek"), testhelpers.WithLabels("paleo"))
	testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCuisine("mexican"))

	got := searchIDs(t, db, types.SearchToolArgs{
		Query:         "risotto",
		Cuisine:       "tha",
		Ingredients:   []string{"feta"},
		DietaryLabels: []string{"paleo", "raw"},
	})
	assert.ElementsMatch(t, []uuid.UUID{byDescription.ID, byCuisine.ID, byIngredient.ID, byLabel.ID}, got)
}

func TestSearchWithoutConditionsSkipsStore(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	testhelpers.FailReads(t, db, assert.AnError)

	out, err := NewSearchExecutor(db).Search(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSearchLimitAndProjection(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)
	for i := 0; i < 7; i++ {
		testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCuisine("korean"))
	}

	out, err := NewSearchExecutor(db).Search(context.Background(), search.Build(types.SearchToolArgs{Cuisine: "Korean"}), 5)
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.Equal(t, "korean", out[0].Cuisine)
	assert.Equal(t, "https://cdn.example/thumb.jpg", out[0].Thumbnail.URL)
}
