package query

import (
	"testing"
	"time"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestBuildGenericOmitsOptionalStages(t *testing.T) {
	pl, err := Build(Params{Limit: 8}, nil, fixedNow)
	require.NoError(t, err)

	assert.Nil(t, pl.Match)
	assert.Nil(t, pl.PriceRange)
	assert.Nil(t, pl.MinRating)
	assert.Empty(t, pl.Sort)
	assert.Equal(t, []string{StageComputed, StageSkip, StageLimit}, pl.Stages())
	assert.Equal(t, []string{FieldTotalPrice, FieldAvgRating, FieldLikeCountNum}, pl.Computed)
}

func TestBuildStageOrder(t *testing.T) {
	p := Params{
		Flags:      Flags{Premium: true},
		StartIndex: 3,
		Limit:      5,
		MinPrice:   ptr(1.0),
		Rating:     ptr(4.0),
	}
	pl, err := Build(p, nil, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, []string{
		StageMatch, StageComputed, StagePriceRange, StageRatingFloor, StageSort, StageSkip, StageLimit,
	}, pl.Stages())
	assert.True(t, pl.Match.PremiumOnly)
	assert.Equal(t, 1.0, *pl.PriceRange.Min)
	assert.Nil(t, pl.PriceRange.Max)
	assert.Equal(t, 3, pl.Skip)
	assert.Equal(t, 5, pl.Limit)
}

func TestBuildViews(t *testing.T) {
	byLikes := []SortKey{{Field: SortLikeCount, Desc: true}, {Field: SortCreatedAt, Desc: true}}

	t.Run("trending", func(t *testing.T) {
		pl, err := Build(Params{Flags: Flags{Trending: true}, Limit: 10}, nil, fixedNow)
		require.NoError(t, err)
		require.NotNil(t, pl.Match.CreatedAfter)
		assert.Equal(t, fixedNow.AddDate(0, 0, -30), *pl.Match.CreatedAfter)
		assert.Equal(t, byLikes, pl.Sort)
	})

	t.Run("quick", func(t *testing.T) {
		pl, err := Build(Params{Flags: Flags{Quick: true}, Limit: 10}, nil, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, QuickMaxMinutes, *pl.Match.MaxCookingTime)
		assert.Equal(t, []SortKey{{Field: SortCookingTime}, {Field: SortCreatedAt, Desc: true}}, pl.Sort)
	})

	t.Run("fresh has no match", func(t *testing.T) {
		pl, err := Build(Params{Flags: Flags{Fresh: true}, Limit: 10}, nil, fixedNow)
		require.NoError(t, err)
		assert.Nil(t, pl.Match)
		assert.Equal(t, []SortKey{{Field: SortCreatedAt, Desc: true}}, pl.Sort)
	})

	t.Run("premium", func(t *testing.T) {
		pl, err := Build(Params{Flags: Flags{Premium: true}, Limit: 10}, nil, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, byLikes, pl.Sort)
	})

	t.Run("likes outrank quick when combined", func(t *testing.T) {
		pl, err := Build(Params{Flags: Flags{Trending: true, Quick: true}, Limit: 10}, nil, fixedNow)
		require.NoError(t, err)
		assert.NotNil(t, pl.Match.MaxCookingTime)
		assert.NotNil(t, pl.Match.CreatedAfter)
		assert.Equal(t, byLikes, pl.Sort)
	})
}

func TestBuildCuisineMatching(t *testing.T) {
	pl, err := Build(Params{Limit: 8, Cuisine: "Italian", DietaryPreference: []string{"vegan"}}, nil, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Italian", pl.Match.CuisineEquals)
	assert.Empty(t, pl.Match.CuisineContains)
	assert.Equal(t, []string{"vegan"}, pl.Match.DietaryAny)

	pl, err = Build(Params{Flags: Flags{Recommended: true}, Limit: 10, Cuisine: "ital"}, nil, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, pl.Match.CuisineEquals)
	assert.Equal(t, []string{"ital"}, pl.Match.CuisineContains)
}

func TestBuildRecommendedUsesStoredPreferences(t *testing.T) {
	prefs := &Preferences{Cuisine: []string{"thai", " "}, DietaryLabels: []string{"Vegan"}}

	pl, err := Build(Params{Flags: Flags{Recommended: true}, Limit: 10}, prefs, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"thai"}, pl.Match.CuisineContains)
	assert.Equal(t, []string{"vegan"}, pl.Match.DietaryAny)

	pl, err = Build(Params{Flags: Flags{Recommended: true}, Limit: 10, Cuisine: "greek"}, prefs, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"greek"}, pl.Match.CuisineContains)
	assert.Equal(t, []string{"vegan"}, pl.Match.DietaryAny)
}

func TestBuildRecommendedWithoutPreferencesOmitsMatch(t *testing.T) {
	pl, err := Build(Params{Flags: Flags{Recommended: true}, Limit: 10}, &Preferences{}, fixedNow)
	require.NoError(t, err)
	assert.Nil(t, pl.Match)
	assert.Equal(t, SortLikeCount, pl.Sort[0].Field)
}

func TestBuildValidates(t *testing.T) {
	_, err := Build(Params{Limit: 0}, nil, fixedNow)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	_, err = Build(Params{Limit: 1, StartIndex: -2}, nil, fixedNow)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
