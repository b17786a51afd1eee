package query

import (
	"strings"
	"time"

	"github.com/bitebot/backend/internal/models"
	"github.com/google/uuid"
)

// Stage names, in pipeline order
const (
	StageMatch       = "match"
	StageComputed    = "computed"
	StagePriceRange  = "priceRange"
	StageRatingFloor = "ratingFloor"
	StageSort        = "sort"
	StageSkip        = "skip"
	StageLimit       = "limit"
)

// Computed field names
const (
	FieldTotalPrice   = "totalPrice"
	FieldAvgRating    = "avgRating"
	FieldLikeCountNum = "likeCountNum"
)

// Sortable fields
const (
	SortLikeCount   = "likeCountNum"
	SortCreatedAt   = "createdAt"
	SortCookingTime = "totalCookingTime"
)

// Match holds the predicates on stored recipe fields. All set predicates
// must hold.
type Match struct {
	PremiumOnly bool
	// CuisineEquals is a case-insensitive equality
	CuisineEquals string
	// CuisineContains matches when any entry is a case-insensitive substring
	CuisineContains []string
	// DietaryAny matches when the recipe carries any of the labels
	DietaryAny     []string
	CreatedAfter   *time.Time
	MaxCookingTime *int
	// FavouriteOf restricts to recipes the user has favourited
	FavouriteOf uuid.UUID
}

// IsEmpty reports whether no predicate is set
func (m *Match) IsEmpty() bool {
	return !m.PremiumOnly && m.CuisineEquals == "" && len(m.CuisineContains) == 0 &&
		len(m.DietaryAny) == 0 && m.CreatedAfter == nil && m.MaxCookingTime == nil && m.FavouriteOf == uuid.Nil
}

// PriceRange bounds totalPrice. Both bounds are inclusive and optional.
type PriceRange struct {
	Min *float64
	Max *float64
}

// SortKey is one ORDER BY term
type SortKey struct {
	Field string
	Desc  bool
}

// Pipeline is the ordered stage list for one listing query. A nil stage is
// omitted from execution.
type Pipeline struct {
	Match      *Match
	Computed   []string
	PriceRange *PriceRange
	MinRating  *float64
	Sort       []SortKey
	Skip       int
	Limit      int
}

// Stages lists the stages that will run, in order
func (p *Pipeline) Stages() []string {
	var stages []string
	if p.Match != nil {
		stages = append(stages, StageMatch)
	}
	stages = append(stages, StageComputed)
	if p.PriceRange != nil {
		stages = append(stages, StagePriceRange)
	}
	if p.MinRating != nil {
		stages = append(stages, StageRatingFloor)
	}
	if len(p.Sort) > 0 {
		stages = append(stages, StageSort)
	}
	return append(stages, StageSkip, StageLimit)
}

// Favourites is the pipeline listing userID's favourite recipes, newest
// first.
func Favourites(userID uuid.UUID, skip, limit int) *Pipeline {
	return &Pipeline{
		Match:    &Match{FavouriteOf: userID},
		Computed: []string{FieldTotalPrice, FieldAvgRating, FieldLikeCountNum},
		Sort:     []SortKey{{Field: SortCreatedAt, Desc: true}},
		Skip:     skip,
		Limit:    limit,
	}
}

// Preferences are the stored profile preferences used by the recommended view
type Preferences struct {
	Cuisine       []string
	DietaryLabels []string
}

// Build turns validated params into a pipeline. prefs is only consulted for
// the recommended view; explicit params win over stored preferences.
func Build(p Params, prefs *Preferences, now time.Time) (*Pipeline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m := &Match{PremiumOnly: p.Premium}

	if p.Recommended {
		cuisines := nonBlank([]string{p.Cuisine})
		dietary := p.DietaryPreference
		if prefs != nil {
			if len(cuisines) == 0 {
				cuisines = nonBlank(prefs.Cuisine)
			}
			if len(dietary) == 0 {
				dietary = models.NormalizeLabels(prefs.DietaryLabels)
			}
		}
		m.CuisineContains = cuisines
		m.DietaryAny = dietary
	} else {
		m.CuisineEquals = p.Cuisine
		m.DietaryAny = p.DietaryPreference
	}

	if p.Trending {
		after := now.AddDate(0, 0, -TrendingDays)
		m.CreatedAfter = &after
	}
	if p.Quick {
		limit := QuickMaxMinutes
		m.MaxCookingTime = &limit
	}

	pl := &Pipeline{
		Computed: []string{FieldTotalPrice, FieldAvgRating, FieldLikeCountNum},
		Skip:     p.StartIndex,
		Limit:    p.Limit,
	}
	if !m.IsEmpty() {
		pl.Match = m
	}
	if p.MinPrice != nil || p.MaxPrice != nil {
		pl.PriceRange = &PriceRange{Min: p.MinPrice, Max: p.MaxPrice}
	}
	pl.MinRating = p.Rating
	pl.Sort = sortFor(p.Flags)
	return pl, nil
}

func sortFor(f Flags) []SortKey {
	switch {
	case f.Trending || f.Premium || f.Recommended:
		return []SortKey{{Field: SortLikeCount, Desc: true}, {Field: SortCreatedAt, Desc: true}}
	case f.Quick:
		return []SortKey{{Field: SortCookingTime}, {Field: SortCreatedAt, Desc: true}}
	case f.Fresh:
		return []SortKey{{Field: SortCreatedAt, Desc: true}}
	}
	return nil
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
