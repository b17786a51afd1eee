package database

import (
	"context"
	"testing"
	"time"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/query"
	"github.com/bitebot/backend/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func run(t *testing.T, db *gorm.DB, p query.Params) []models.RecipeListItem {
	t.Helper()
	pl, err := query.Build(p, nil, time.Now().UTC())
	require.NoError(t, err)
	items, err := NewPipelineExecutor(db).Execute(context.Background(), pl)
	require.NoError(t, err)
	return items
}

func ids(items []models.RecipeListItem) []uuid.UUID {
	out := make([]uuid.UUID, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestQuickViewFiltersAndSortsByCookingTime(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)

	r10 := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCookingTime(10))
	testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCookingTime(45))
	r20 := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCookingTime(20))

	items := run(t, db, query.Params{Flags: query.Flags{Quick: true}, Limit: 10})

	assert.Equal(t, []uuid.UUID{r10.ID, r20.ID}, ids(items))
	for _, it := range items {
		assert.LessOrEqual(t, it.TotalCookingTime, query.QuickMaxMinutes)
	}
}

func TestTrendingViewWindowAndOrder(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)
	now := time.Now().UTC()

	old := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCreatedAt(now.AddDate(0, 0, -45)))
	popular := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCreatedAt(now.AddDate(0, 0, -10)))
	tieOlder := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCreatedAt(now.AddDate(0, 0, -5)))
	tieNewer := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCreatedAt(now.AddDate(0, 0, -1)))

	testhelpers.AddLikes(t, db, old.ID, 9)
	testhelpers.AddLikes(t, db, popular.ID, 3)
	testhelpers.AddLikes(t, db, tieOlder.ID, 1)
	testhelpers.AddLikes(t, db, tieNewer.ID, 1)

	items := run(t, db, query.Params{Flags: query.Flags{Trending: true}, Limit: 10})

	assert.Equal(t, []uuid.UUID{popular.ID, tieNewer.ID, tieOlder.ID}, ids(items))
	cutoff := now.AddDate(0, 0, -query.TrendingDays)
	for i, it := range items {
		assert.True(t, it.CreatedAt.After(cutoff))
		if i > 0 {
			prev := items[i-1]
			assert.GreaterOrEqual(t, prev.LikeCountNum, it.LikeCountNum)
			if prev.LikeCountNum == it.LikeCountNum {
				assert.False(t, prev.CreatedAt.Before(it.CreatedAt))
			}
		}
	}
	assert.Equal(t, int64(3), items[0].LikeCountNum)
}

func TestComputedFields(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)
	user := testhelpers.CreateUser(t, db, models.RoleUser)

	priced := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithPrices(testhelpers.Ptr(2.5), nil, testhelpers.Ptr(4.0)))
	bare := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithIngredients())
	testhelpers.AddReview(t, db, priced.ID, user.ID, 4)
	testhelpers.AddReview(t, db, priced.ID, user.ID, 5)

	items := run(t, db, query.Params{Limit: 8})
	require.Len(t, items, 2)

	byID := map[uuid.UUID]models.RecipeListItem{}
	for _, it := range items {
		byID[it.ID] = it
	}
	assert.InDelta(t, 6.5, byID[priced.ID].TotalPrice, 1e-9)
	assert.InDelta(t, 4.5, byID[priced.ID].AvgRating, 1e-9)
	assert.Equal(t, 0.0, byID[bare.ID].TotalPrice)
	assert.Equal(t, 0.0, byID[bare.ID].AvgRating)
	assert.Equal(t, int64(0), byID[bare.ID].LikeCountNum)
	assert.Equal(t, "thumb", byID[bare.ID].Thumbnail.ID)
}

func TestPriceAndRatingFilters(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)
	user := testhelpers.CreateUser(t, db, models.RoleUser)

	cheap := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithPrices(testhelpers.Ptr(3.0)))
	mid := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithPrices(testhelpers.Ptr(10.0)))
	dear := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithPrices(testhelpers.Ptr(30.0)))
	testhelpers.AddReview(t, db, mid.ID, user.ID, 5)
	testhelpers.AddReview(t, db, dear.ID, user.ID, 3)

	items := run(t, db, query.Params{Flags: query.Flags{Fresh: true}, Limit: 10,
		MinPrice: testhelpers.Ptr(3.0), MaxPrice: testhelpers.Ptr(10.0)})
	assert.ElementsMatch(t, []uuid.UUID{cheap.ID, mid.ID}, ids(items))

	items = run(t, db, query.Params{Limit: 10, MaxPrice: testhelpers.Ptr(5.0)})
	assert.Equal(t, []uuid.UUID{cheap.ID}, ids(items))

	items = run(t, db, query.Params{Limit: 10, Rating: testhelpers.Ptr(4.0)})
	assert.Equal(t, []uuid.UUID{mid.ID}, ids(items))
}

func TestStructuralFilters(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)

	vegan := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCuisine("Italian"), testhelpers.WithLabels("vegan"))
	keto := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCuisine("South Indian"), testhelpers.WithLabels("keto", "low-carb"), testhelpers.WithPremium())
	testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCuisine("indian"))

	items := run(t, db, query.Params{Limit: 10, Cuisine: "italian"})
	assert.Equal(t, []uuid.UUID{vegan.ID}, ids(items))

	items = run(t, db, query.Params{Limit: 10, DietaryPreference: []string{"vegan", "keto"}})
	assert.ElementsMatch(t, []uuid.UUID{vegan.ID, keto.ID}, ids(items))

	items = run(t, db, query.Params{Flags: query.Flags{Premium: true}, Limit: 10})
	assert.Equal(t, []uuid.UUID{keto.ID}, ids(items))

	items = run(t, db, query.Params{Flags: query.Flags{Recommended: true}, Limit: 10, Cuisine: "indian", DietaryPreference: []string{"low-carb"}})
	assert.Equal(t, []uuid.UUID{keto.ID}, ids(items))

	// exact cuisine match does not treat the value as a substring
	items = run(t, db, query.Params{Limit: 10, Cuisine: "indian"})
	assert.Len(t, items, 1)
	assert.NotEqual(t, keto.ID, items[0].ID)
}

func TestPagination(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	chef := testhelpers.CreateUser(t, db, models.RoleChef)
	now := time.Now().UTC()

	var created []uuid.UUID
	for i := 0; i < 5; i++ {
		r := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCreatedAt(now.Add(-time.Duration(i)*time.Hour)))
		created = append(created, r.ID)
	}

	items := run(t, db, query.Params{Flags: query.Flags{Fresh: true}, StartIndex: 1, Limit: 2})
	assert.Equal(t, created[1:3], ids(items))

	items = run(t, db, query.Params{Flags: query.Flags{Fresh: true}, StartIndex: 10, Limit: 2})
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
