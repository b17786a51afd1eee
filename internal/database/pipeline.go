package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/query"
	"github.com/bitebot/backend/internal/search"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Computed field expressions. They are correlated to the outer recipes row.
const (
	totalPriceExpr = "(SELECT CAST(COALESCE(SUM(COALESCE(ri.market_price, 0)), 0) AS FLOAT) FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id)"
	avgRatingExpr  = "(SELECT CAST(COALESCE(AVG(rv.rating), 0) AS FLOAT) FROM recipe_reviews rv WHERE rv.recipe_id = recipes.id)"
	likeCountExpr  = "(SELECT COUNT(*) FROM recipe_likes rl WHERE rl.recipe_id = recipes.id)"

	likeEscape = " ESCAPE '\\'"
)

var listColumns = []string{
	"recipes.id", "recipes.title", "recipes.description", "recipes.cuisine", "recipes.chef_id",
	"recipes.total_cooking_time", "recipes.servings", "recipes.is_premium",
	"recipes.thumbnail_id", "recipes.thumbnail_url", "recipes.created_at",
}

var computedColumns = map[string]string{
	query.FieldTotalPrice:   totalPriceExpr + " AS total_price",
	query.FieldAvgRating:    avgRatingExpr + " AS avg_rating",
	query.FieldLikeCountNum: likeCountExpr + " AS like_count_num",
}

var sortColumns = map[string]string{
	query.SortLikeCount:   "r.like_count_num",
	query.SortCreatedAt:   "r.created_at",
	query.SortCookingTime: "r.total_cooking_time",
}

// PipelineExecutor runs a listing pipeline as a single SELECT
type PipelineExecutor struct {
	db *gorm.DB
}

func NewPipelineExecutor(db *gorm.DB) *PipelineExecutor {
	return &PipelineExecutor{db: db}
}

// Execute runs p. The structural match and computed fields form an inner
// query; the computed-field filters, sort and pagination apply to it.
func (e *PipelineExecutor) Execute(ctx context.Context, p *query.Pipeline) ([]models.RecipeListItem, error) {
	db := e.db.WithContext(ctx)

	columns := append([]string{}, listColumns...)
	for _, field := range p.Computed {
		col, ok := computedColumns[field]
		if !ok {
			return nil, fmt.Errorf("unknown computed field %q", field)
		}
		columns = append(columns, col)
	}

	inner := db.Table("recipes").Select(strings.Join(columns, ", "))
	if p.Match != nil {
		inner = applyMatch(inner, p.Match)
	}

	outer := db.Table("(?) AS r", inner).Select("r.*")
	if pr := p.PriceRange; pr != nil {
		if pr.Min != nil {
			outer = outer.Where("r.total_price >= ?", *pr.Min)
		}
		if pr.Max != nil {
			outer = outer.Where("r.total_price <= ?", *pr.Max)
		}
	}
	if p.MinRating != nil {
		outer = outer.Where("r.avg_rating >= ?", *p.MinRating)
	}
	for _, key := range p.Sort {
		col, ok := sortColumns[key.Field]
		if !ok {
			return nil, fmt.Errorf("unknown sort field %q", key.Field)
		}
		if key.Desc {
			col += " DESC"
		}
		outer = outer.Order(col)
	}

	var items []models.RecipeListItem
	if err := outer.Offset(p.Skip).Limit(p.Limit).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("execute recipe pipeline: %w", err)
	}
	for i := range items {
		items[i].Thumbnail = models.Image{ID: items[i].ThumbnailID, URL: items[i].ThumbnailURL}
	}
	if items == nil {
		items = []models.RecipeListItem{}
	}
	return items, nil
}

func applyMatch(tx *gorm.DB, m *query.Match) *gorm.DB {
	if m.PremiumOnly {
		tx = tx.Where("recipes.is_premium = ?", true)
	}
	if m.CuisineEquals != "" {
		tx = tx.Where("LOWER(recipes.cuisine) = ?", strings.ToLower(m.CuisineEquals))
	}
	if len(m.CuisineContains) > 0 {
		clauses := make([]string, len(m.CuisineContains))
		args := make([]interface{}, len(m.CuisineContains))
		for i, c := range m.CuisineContains {
			clauses[i] = "LOWER(recipes.cuisine) LIKE ?" + likeEscape
			args[i] = search.ContainsPattern(c)
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	if len(m.DietaryAny) > 0 {
		tx = tx.Where(dietaryAnySQL, m.DietaryAny)
	}
	if m.CreatedAfter != nil {
		tx = tx.Where("recipes.created_at >= ?", *m.CreatedAfter)
	}
	if m.MaxCookingTime != nil {
		tx = tx.Where("recipes.total_cooking_time <= ?", *m.MaxCookingTime)
	}
	if m.FavouriteOf != uuid.Nil {
		tx = tx.Where(favouriteOfSQL, m.FavouriteOf)
	}
	return tx
}

const favouriteOfSQL = "EXISTS (SELECT 1 FROM favourites f WHERE f.recipe_id = recipes.id AND f.user_id = ?)"

const dietaryAnySQL = "EXISTS (SELECT 1 FROM recipe_dietary_labels dl WHERE dl.recipe_id = recipes.id AND dl.label IN ?)"
