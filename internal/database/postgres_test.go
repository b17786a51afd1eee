package database

import (
	"context"
	"testing"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/query"
	"github.com/bitebot/backend/internal/search"
	"github.com/bitebot/backend/internal/testhelpers"
	"github.com/bitebot/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	require.NoError(t, HealthCheck(context.Background(), db))

	chef := testhelpers.CreateUser(t, db, models.RoleChef)
	user := testhelpers.CreateUser(t, db, models.RoleUser)

	r10 := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCookingTime(10), testhelpers.WithPrices(testhelpers.Ptr(1.25), nil))
	testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCookingTime(45))
	r20 := testhelpers.CreateRecipe(t, db, chef.ID, testhelpers.WithCookingTime(20), testhelpers.WithTitle("a.b"))
	testhelpers.AddReview(t, db, r10.ID, user.ID, 3)

	items := run(t, db, query.Params{Flags: query.Flags{Quick: true}, Limit: 10})
	assert.Equal(t, []uuid.UUID{r10.ID, r20.ID}, ids(items))
	assert.InDelta(t, 1.25, items[0].TotalPrice, 1e-9)
	assert.InDelta(t, 3.0, items[0].AvgRating, 1e-9)

	out, err := NewSearchExecutor(db).Search(context.Background(), search.Build(types.SearchToolArgs{Query: "a.b"}), 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, r20.ID, out[0].ID)
}
