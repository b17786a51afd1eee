// Package search turns chat tool arguments into a recipe predicate
package search

import (
	"strings"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/types"
)

const (
	DefaultLimit = 5
	MaxLimit     = 5
)

// Field is the recipe attribute a condition tests
type Field string

const (
	FieldText       Field = "text"
	FieldCuisine    Field = "cuisine"
	FieldIngredient Field = "ingredient"
	FieldDietary    Field = "dietary"
)

// Condition holds when any of its values matches. For text, cuisine and
// ingredient the values are LIKE patterns over lower-cased columns; for
// dietary they are label literals.
type Condition struct {
	Field  Field
	Values []string
}

// Predicate is the OR of its conditions
type Predicate struct {
	Conditions []Condition
}

// Build assembles the predicate for args. It returns nil when no argument
// carries a usable value, in which case the search yields nothing.
func Build(args types.SearchToolArgs) *Predicate {
	var conds []Condition

	if q := strings.TrimSpace(args.Query); q != "" {
		conds = append(conds, Condition{Field: FieldText, Values: []string{ContainsPattern(q)}})
	}
	if c := strings.TrimSpace(args.Cuisine); c != "" {
		conds = append(conds, Condition{Field: FieldCuisine, Values: []string{ContainsPattern(c)}})
	}

	var ingredients []string
	for _, term := range args.Ingredients {
		if term = strings.TrimSpace(term); term != "" {
			ingredients = append(ingredients, ContainsPattern(term))
		}
	}
	if len(ingredients) > 0 {
		conds = append(conds, Condition{Field: FieldIngredient, Values: ingredients})
	}

	if labels := models.NormalizeLabels(args.DietaryLabels); len(labels) > 0 {
		conds = append(conds, Condition{Field: FieldDietary, Values: labels})
	}

	if len(conds) == 0 {
		return nil
	}
	return &Predicate{Conditions: conds}
}

// EscapeLike escapes the LIKE metacharacters so s matches literally.
// Patterns built from it must be used with ESCAPE '\'.
func EscapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\', '%', '_':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContainsPattern is the case-insensitive substring pattern for term
func ContainsPattern(term string) string {
	return "%" + EscapeLike(strings.ToLower(term)) + "%"
}

// ClampLimit applies the default and the ceiling to a requested limit
func ClampLimit(limit, max int) int {
	if max <= 0 {
		max = MaxLimit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > max {
		return max
	}
	return limit
}
