package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/search"
	"gorm.io/gorm"
)

// SearchExecutor runs chat tool predicates
type SearchExecutor struct {
	db *gorm.DB
}

func NewSearchExecutor(db *gorm.DB) *SearchExecutor {
	return &SearchExecutor{db: db}
}

// Search returns up to limit summaries matching any condition of p, newest
// first. A nil predicate returns nothing without a query.
func (e *SearchExecutor) Search(ctx context.Context, p *search.Predicate, limit int) ([]models.RecipeSummary, error) {
	if p == nil || len(p.Conditions) == 0 {
		return []models.RecipeSummary{}, nil
	}

	var clauses []string
	var args []interface{}
	for _, c := range p.Conditions {
		sql, condArgs, err := conditionSQL(c)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, sql)
		args = append(args, condArgs...)
	}

	var out []models.RecipeSummary
	err := e.db.WithContext(ctx).
		Table("recipes").
		Select("recipes.id, recipes.title, recipes.cuisine, recipes.thumbnail_id, recipes.thumbnail_url").
		Where("("+strings.Join(clauses, " OR ")+")", args...).
		Order("recipes.created_at DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	for i := range out {
		out[i].Thumbnail = models.Image{ID: out[i].ThumbnailID, URL: out[i].ThumbnailURL}
	}
	if out == nil {
		out = []models.RecipeSummary{}
	}
	return out, nil
}

func conditionSQL(c search.Condition) (string, []interface{}, error) {
	switch c.Field {
	case search.FieldText:
		var parts []string
		var args []interface{}
		for _, v := range c.Values {
			parts = append(parts,
				"LOWER(recipes.title) LIKE ?"+likeEscape,
				"LOWER(recipes.description) LIKE ?"+likeEscape)
			args = append(args, v, v)
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil
	case search.FieldCuisine:
		return likeAny("LOWER(recipes.cuisine)", c.Values)
	case search.FieldIngredient:
		sql, args, _ := likeAny("LOWER(ri.name)", c.Values)
		return "EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id AND " + sql + ")", args, nil
	case search.FieldDietary:
		return dietaryAnySQL, []interface{}{c.Values}, nil
	}
	return "", nil, fmt.Errorf("unknown search field %q", c.Field)
}

func likeAny(column string, patterns []string) (string, []interface{}, error) {
	parts := make([]string, len(patterns))
	args := make([]interface{}, len(patterns))
	for i, p := range patterns {
		parts[i] = column + " LIKE ?" + likeEscape
		args[i] = p
	}
	return "(" + strings.Join(parts, " OR ") + ")", args, nil
}
