// Package query builds the recipe listing pipeline: structural filters,
// computed fields, filters on computed fields, sort and pagination. It does
// not touch the store; database.PipelineExecutor runs what it builds.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/google/uuid"
)

const (
	DefaultLimit     = 8
	DefaultViewLimit = 10
	// QuickMaxMinutes is the cooking time ceiling of the quick view
	QuickMaxMinutes = 30
	// TrendingDays is the age window of the trending view
	TrendingDays = 30
)

// View names a recipe listing mode
type View string

const (
	ViewGeneric     View = "generic"
	ViewTrending    View = "trending"
	ViewFresh       View = "fresh"
	ViewQuick       View = "quick"
	ViewPremium     View = "premium"
	ViewRecommended View = "recommended"
)

// ParseView maps a view name to a View
func ParseView(s string) (View, bool) {
	switch v := View(strings.ToLower(s)); v {
	case ViewGeneric, ViewTrending, ViewFresh, ViewQuick, ViewPremium, ViewRecommended:
		return v, true
	}
	return "", false
}

// Flags are the view toggles. They may be combined.
type Flags struct {
	Trending    bool
	Fresh       bool
	Quick       bool
	Premium     bool
	Recommended bool
}

// FlagsFor returns the flags of a single view
func FlagsFor(v View) Flags {
	switch v {
	case ViewTrending:
		return Flags{Trending: true}
	case ViewFresh:
		return Flags{Fresh: true}
	case ViewQuick:
		return Flags{Quick: true}
	case ViewPremium:
		return Flags{Premium: true}
	case ViewRecommended:
		return Flags{Recommended: true}
	}
	return Flags{}
}

// Any reports whether any view flag is set
func (f Flags) Any() bool {
	return f.Trending || f.Fresh || f.Quick || f.Premium || f.Recommended
}

// Params are the caller-supplied listing parameters
type Params struct {
	Flags
	StartIndex        int
	Limit             int
	Cuisine           string
	DietaryPreference []string
	MinPrice          *float64
	MaxPrice          *float64
	Rating            *float64
	RequesterID       uuid.UUID
}

// Validate rejects bad pagination and inconsistent filters
func (p Params) Validate() error {
	if p.StartIndex < 0 || p.Limit < 1 {
		return apperrors.Validation("Invalid pagination parameters")
	}
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return apperrors.Validation("rating must be between 1 and 5")
	}
	if p.MinPrice != nil && *p.MinPrice < 0 {
		return apperrors.Validation("minPrice must not be negative")
	}
	if p.MaxPrice != nil && *p.MaxPrice < 0 {
		return apperrors.Validation("maxPrice must not be negative")
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return apperrors.Validation("minPrice must not exceed maxPrice")
	}
	return nil
}

// ParseParams reads listing parameters from a query string. Flags in base
// are always set; a shortcut route passes its view there.
func ParseParams(values url.Values, base Flags) (Params, error) {
	p := Params{Flags: base}
	p.Trending = p.Trending || values.Get("trending") == "true"
	p.Fresh = p.Fresh || values.Get("fresh") == "true"
	p.Quick = p.Quick || values.Get("quick") == "true"
	p.Premium = p.Premium || values.Get("premium") == "true"
	p.Recommended = p.Recommended || values.Get("recommended") == "true"

	var err error
	if p.StartIndex, err = intParam(values, "startIndex", 0); err != nil {
		return Params{}, err
	}
	defaultLimit := DefaultLimit
	if p.Any() {
		defaultLimit = DefaultViewLimit
	}
	if p.Limit, err = intParam(values, "limit", defaultLimit); err != nil {
		return Params{}, err
	}

	p.Cuisine = strings.TrimSpace(values.Get("cuisine"))
	p.DietaryPreference = SplitList(values.Get("dietaryPreference"))

	if p.MinPrice, err = floatParam(values, "minPrice"); err != nil {
		return Params{}, err
	}
	if p.MaxPrice, err = floatParam(values, "maxPrice"); err != nil {
		return Params{}, err
	}
	if p.Rating, err = floatParam(values, "rating"); err != nil {
		return Params{}, err
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// SplitList splits a comma-separated list, trimming and lower-casing
// entries and dropping blanks.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intParam(values url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation("%s must be an integer", name)
	}
	return n, nil
}

func floatParam(values url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, apperrors.Validation("%s must be a number", name)
	}
	return &f, nil
}
