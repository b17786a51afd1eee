package service

import (
	"context"
	"errors"
	"time"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeService keeps a recipe's like set and the user's favourites equal.
// Both sides are written in one transaction.
type LikeService struct {
	db      *gorm.DB
	logger  zerolog.Logger
	timeout storeTimeout
}

func NewLikeService(db *gorm.DB, logger zerolog.Logger, timeout time.Duration) *LikeService {
	return &LikeService{
		db:      db,
		logger:  logger.With().Str("component", "likes").Logger(),
		timeout: storeTimeout(timeout),
	}
}

// Toggle likes the recipe if userID has not liked it yet and unlikes it
// otherwise.
func (s *LikeService) Toggle(ctx context.Context, userID, recipeID uuid.UUID) (*types.LikeResponse, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	liked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id").First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("recipe")
			}
			return err
		}

		var existing int64
		err := tx.Model(&models.RecipeLike{}).
			Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			Count(&existing).Error
		if err != nil {
			return err
		}

		if existing > 0 {
			if err := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&models.RecipeLike{}).Error; err != nil {
				return err
			}
			return tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.Favourite{}).Error
		}

		liked = true
		like := &models.RecipeLike{RecipeID: recipeID, UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
			return err
		}
		fav := &models.Favourite{UserID: userID, RecipeID: recipeID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(fav).Error
	})
	if err != nil {
		if apperrors.KindOf(err) != "" {
			return nil, err
		}
		s.logger.Warn().Err(err).
			Str("user_id", userID.String()).
			Str("recipe_id", recipeID.String()).
			Msg("like toggle rolled back")
		return nil, apperrors.Consistency("like toggle", err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeLike{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return nil, apperrors.Classify("count likes", err)
	}
	return &types.LikeResponse{RecipeID: recipeID, Liked: liked, LikeCountNum: count}, nil
}
