package service

import (
	"context"
	"time"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/database"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/search"
	"github.com/bitebot/backend/internal/types"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SearchToolService answers the chat agent's searchRecipes tool
type SearchToolService struct {
	executor *database.SearchExecutor
	logger   zerolog.Logger
	timeout  storeTimeout
}

func NewSearchToolService(db *gorm.DB, logger zerolog.Logger, timeout time.Duration) *SearchToolService {
	return &SearchToolService{
		executor: database.NewSearchExecutor(db),
		logger:   logger.With().Str("component", "search_tool").Logger(),
		timeout:  storeTimeout(timeout),
	}
}

func (s *SearchToolService) SearchRecipes(ctx context.Context, args *types.SearchToolArgs) ([]models.RecipeSummary, error) {
	if args == nil {
		args = &types.SearchToolArgs{}
	}
	pred := search.Build(*args)
	if pred == nil {
		return []models.RecipeSummary{}, nil
	}
	limit := search.ClampLimit(args.Limit, search.MaxLimit)

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	out, err := s.executor.Search(ctx, pred, limit)
	if err != nil {
		err = apperrors.Classify("search recipes", err)
		s.logger.Warn().Err(err).Msg("search tool query failed")
		return nil, err
	}
	return out, nil
}
