package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitebot/backend/internal/access"
	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/database"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/query"
	"github.com/bitebot/backend/internal/storage"
	"github.com/bitebot/backend/internal/types"
	"github.com/bitebot/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeService struct {
	db       *gorm.DB
	blobs    storage.BlobStore
	pipeline *database.PipelineExecutor
	logger   zerolog.Logger
	timeout  storeTimeout
	now      func() time.Time
}

func NewRecipeService(db *gorm.DB, blobs storage.BlobStore, logger zerolog.Logger, timeout time.Duration) *RecipeService {
	return &RecipeService{
		db:       db,
		blobs:    blobs,
		pipeline: database.NewPipelineExecutor(db),
		logger:   logger.With().Str("component", "recipes").Logger(),
		timeout:  storeTimeout(timeout),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Query runs the listing pipeline for params. The recommended view reads
// the requester's stored preferences.
func (s *RecipeService) Query(ctx context.Context, params query.Params) (*types.RecipeListResponse, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var prefs *query.Preferences
	if params.Recommended {
		if params.RequesterID == uuid.Nil {
			return nil, apperrors.Unauthorized("authentication required for recommended recipes")
		}
		var user models.User
		err := s.db.WithContext(ctx).Select("id", "cuisine", "dietary_labels").
			First(&user, "id = ?", params.RequesterID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		if err != nil {
			return nil, s.dependency("load preferences", err)
		}
		prefs = &query.Preferences{Cuisine: user.Cuisine, DietaryLabels: user.DietaryLabels}
	}

	pl, err := query.Build(params, prefs, s.now())
	if err != nil {
		return nil, err
	}
	items, err := s.pipeline.Execute(ctx, pl)
	if err != nil {
		return nil, s.dependency("query recipes", err)
	}
	return &types.RecipeListResponse{Count: len(items), Recipes: items}, nil
}

// Get returns the full recipe if the requester may see it. A premium recipe
// is denied with the chef id, never hidden.
func (s *RecipeService) Get(ctx context.Context, recipeID, requesterID uuid.UUID) (*types.RecipeResponse, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	recipe, err := s.load(ctx, s.db, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.IsPremium {
		requester, err := s.requester(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(recipe, requester); err != nil {
			return nil, err
		}
	}
	return s.response(ctx, recipe)
}

// Create stores a new recipe with its uploaded images. Uploaded blobs are
// removed again when a later step fails.
func (s *RecipeService) Create(ctx context.Context, actor Actor, req *types.RecipeRequest, thumbnail *Upload, stepImages []Upload) (*types.RecipeResponse, error) {
	if actor.Role != models.RoleChef && actor.Role != models.RoleAdmin {
		return nil, apperrors.Forbidden("only chefs can create recipes")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	if thumbnail == nil {
		return nil, apperrors.Validation("thumbnail is required")
	}
	if len(stepImages) != len(req.Steps) {
		return nil, apperrors.Validation("expected %d step images, got %d", len(req.Steps), len(stepImages))
	}

	var uploaded []models.Image
	committed := false
	defer func() {
		if !committed {
			s.discard(ctx, uploaded)
		}
	}()

	thumb, err := s.blobs.Upload(ctx, thumbnail.Name, thumbnail.ContentType, thumbnail.Body)
	if err != nil {
		return nil, s.dependency("upload thumbnail", err)
	}
	uploaded = append(uploaded, thumb)

	images := make([]models.Image, len(stepImages))
	for i, f := range stepImages {
		img, err := s.blobs.Upload(ctx, f.Name, f.ContentType, f.Body)
		if err != nil {
			return nil, s.dependency(fmt.Sprintf("upload step %d image", i+1), err)
		}
		uploaded = append(uploaded, img)
		images[i] = img
	}

	recipe := &models.Recipe{
		ID:        uuid.New(),
		ChefID:    actor.ID,
		Thumbnail: thumb,
	}
	applyRequest(recipe, req)
	for i := range recipe.Steps {
		recipe.Steps[i].Image = images[i]
	}
	recipe.SetLabels(req.DietaryLabels)

	sctx, cancel := s.timeout.context(ctx)
	defer cancel()
	if err := s.db.WithContext(sctx).Create(recipe).Error; err != nil {
		return nil, s.dependency("create recipe", err)
	}
	committed = true

	s.logger.Info().Str("recipe_id", recipe.ID.String()).Str("chef_id", actor.ID.String()).Msg("recipe created")
	return s.response(sctx, recipe)
}

// Update replaces the listed fields and children of a recipe. Step images
// are kept for step numbers that still exist.
func (s *RecipeService) Update(ctx context.Context, actor Actor, recipeID uuid.UUID, req *types.RecipeRequest) (*types.RecipeResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var recipe *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		recipe, err = s.load(ctx, tx, recipeID)
		if err != nil {
			return err
		}
		if err := authorizeOwner(actor, recipe); err != nil {
			return err
		}

		images := make(map[int]models.Image, len(recipe.Steps))
		for _, st := range recipe.Steps {
			images[st.StepNo] = st.Image
		}
		applyRequest(recipe, req)
		for i := range recipe.Steps {
			recipe.Steps[i].Image = images[recipe.Steps[i].StepNo]
		}
		recipe.SetLabels(req.DietaryLabels)

		if err := deleteChildren(tx, recipe.ID, &models.Ingredient{}, &models.Step{}, &models.RecipeDietaryLabel{}); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Create(&recipe.Ingredients).Error; err != nil {
			return err
		}
		if err := tx.Create(&recipe.Steps).Error; err != nil {
			return err
		}
		if len(recipe.DietaryLabels) > 0 {
			return tx.Create(&recipe.DietaryLabels).Error
		}
		return nil
	})
	if err != nil {
		return nil, s.dependency("update recipe", err)
	}
	return s.response(ctx, recipe)
}

// Delete removes a recipe, its children and every like and favourite that
// points at it. Blobs are deleted after the rows are gone.
func (s *RecipeService) Delete(ctx context.Context, actor Actor, recipeID uuid.UUID) error {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var recipe *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		recipe, err = s.load(ctx, tx, recipeID)
		if err != nil {
			return err
		}
		if err := authorizeOwner(actor, recipe); err != nil {
			return err
		}
		if err := deleteChildren(tx, recipe.ID,
			&models.Ingredient{}, &models.Step{}, &models.RecipeDietaryLabel{},
			&models.Review{}, &models.RecipeLike{}, &models.Favourite{}); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
	if err != nil {
		return s.dependency("delete recipe", err)
	}

	images := []models.Image{recipe.Thumbnail}
	for _, st := range recipe.Steps {
		images = append(images, st.Image)
	}
	s.discard(ctx, images)
	return nil
}

// AddReview records a rating from userID. Premium recipes only take
// reviews from those who may read them.
func (s *RecipeService) AddReview(ctx context.Context, userID, recipeID uuid.UUID, req *types.ReviewRequest) (*models.Review, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var recipe models.Recipe
	err := s.db.WithContext(ctx).Select("id", "chef_id", "is_premium").First(&recipe, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("recipe")
	}
	if err != nil {
		return nil, s.dependency("load recipe", err)
	}
	if recipe.IsPremium {
		requester, err := s.requester(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(&recipe, requester); err != nil {
			return nil, err
		}
	}

	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "name").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, s.dependency("load user", err)
	}

	review := &models.Review{
		RecipeID: recipeID,
		UserID:   userID,
		Name:     user.Name,
		Rating:   req.Rating,
		Message:  req.Message,
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, s.dependency("create review", err)
	}
	return review, nil
}

func (s *RecipeService) load(ctx context.Context, db *gorm.DB, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.WithContext(ctx).
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Steps", func(tx *gorm.DB) *gorm.DB { return tx.Order("step_no ASC") }).
		Preload("DietaryLabels").
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		First(&recipe, "id = ?", recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("recipe")
	}
	if err != nil {
		return nil, s.dependency("load recipe", err)
	}
	return &recipe, nil
}

// requester loads the subscription set of id. uuid.Nil is anonymous.
func (s *RecipeService) requester(ctx context.Context, id uuid.UUID) (*access.Requester, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var chefIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.UserSubscription{}).
		Where("user_id = ?", id).Pluck("chef_id", &chefIDs).Error
	if err != nil {
		return nil, s.dependency("load subscriptions", err)
	}
	return &access.Requester{ID: id, Subscribed: chefIDs}, nil
}

func (s *RecipeService) response(ctx context.Context, recipe *models.Recipe) (*types.RecipeResponse, error) {
	var likes int64
	err := s.db.WithContext(ctx).Model(&models.RecipeLike{}).Where("recipe_id = ?", recipe.ID).Count(&likes).Error
	if err != nil {
		return nil, s.dependency("count likes", err)
	}

	resp := &types.RecipeResponse{
		Recipe:        *recipe,
		DietaryLabels: recipe.Labels(),
		LikeCountNum:  likes,
	}
	for _, ing := range recipe.Ingredients {
		if ing.MarketPrice != nil {
			resp.TotalPrice += *ing.MarketPrice
		}
	}
	if n := len(recipe.Reviews); n > 0 {
		sum := 0
		for _, r := range recipe.Reviews {
			sum += r.Rating
		}
		resp.AvgRating = float64(sum) / float64(n)
	}
	if resp.Reviews == nil {
		resp.Reviews = []models.Review{}
	}
	return resp, nil
}

// discard deletes blobs without failing the caller
func (s *RecipeService) discard(ctx context.Context, images []models.Image) {
	ctx = context.WithoutCancel(ctx)
	for _, img := range images {
		if img.ID == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, img.ID); err != nil {
			s.logger.Warn().Err(err).Str("blob_id", img.ID).Msg("failed to delete blob")
		}
	}
}

func (s *RecipeService) dependency(op string, err error) error {
	err = apperrors.Classify(op, err)
	if apperrors.IsKind(err, apperrors.KindDependency) {
		s.logger.Warn().Err(err).Str("op", op).Msg("store call failed")
	}
	return err
}

func authorizeOwner(actor Actor, recipe *models.Recipe) error {
	if actor.Role == models.RoleAdmin || actor.ID == recipe.ChefID {
		return nil
	}
	return apperrors.Forbidden("only the owning chef can change this recipe")
}

func applyRequest(recipe *models.Recipe, req *types.RecipeRequest) {
	recipe.Title = req.Title
	recipe.Description = req.Description
	recipe.Cuisine = req.Cuisine
	recipe.TotalCookingTime = req.TotalCookingTime
	recipe.Servings = req.Servings
	recipe.IsPremium = req.IsPremium
	recipe.ExternalMediaLinks = models.MediaLinks(req.ExternalMediaLinks)

	recipe.Ingredients = make([]models.Ingredient, len(req.Ingredients))
	for i, in := range req.Ingredients {
		recipe.Ingredients[i] = models.Ingredient{
			RecipeID:    recipe.ID,
			Position:    i,
			Name:        in.Name,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			MarketPrice: in.MarketPrice,
		}
	}
	recipe.Steps = make([]models.Step, len(req.Steps))
	for i, st := range req.Steps {
		recipe.Steps[i] = models.Step{
			RecipeID:    recipe.ID,
			StepNo:      st.StepNo,
			Instruction: st.Instruction,
		}
	}
}

func deleteChildren(tx *gorm.DB, recipeID uuid.UUID, tables ...interface{}) error {
	for _, m := range tables {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
