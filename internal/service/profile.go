package service

import (
	"context"
	"errors"
	"time"

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

// MaxFavourites caps the favourites listing
const MaxFavourites = 100

type ProfileService struct {
	db       *gorm.DB
	blobs    storage.BlobStore
	pipeline *database.PipelineExecutor
	logger   zerolog.Logger
	timeout  storeTimeout
}

func NewProfileService(db *gorm.DB, blobs storage.BlobStore, logger zerolog.Logger, timeout time.Duration) *ProfileService {
	return &ProfileService{
		db:       db,
		blobs:    blobs,
		pipeline: database.NewPipelineExecutor(db),
		logger:   logger.With().Str("component", "profiles").Logger(),
		timeout:  storeTimeout(timeout),
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()
	return s.profile(ctx, userID)
}

func (s *ProfileService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*types.PublicProfile, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	user, err := s.loadUser(ctx, s.db.Preload("ChefProfile"), userID)
	if err != nil {
		return nil, err
	}
	out := &types.PublicProfile{
		ID:          user.ID,
		Name:        user.Name,
		Bio:         user.Bio,
		Role:        user.Role,
		Avatar:      user.Avatar,
		ChefProfile: user.ChefProfile,
	}
	if user.Role == models.RoleChef {
		if out.Subscribers, err = s.subscriberCount(ctx, user.ID); err != nil {
			return nil, err
		}
		err = s.db.WithContext(ctx).Model(&models.Recipe{}).Where("chef_id = ?", user.ID).Count(&out.RecipeCount).Error
		if err != nil {
			return nil, s.dependency("count recipes", err)
		}
	}
	return out, nil
}

// UpdateProfile applies the non-nil fields of req. Chef fields are
// rejected for users who are not chefs.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.ProfileResponse, error) {
	if req == nil || req.IsEmpty() {
		return nil, apperrors.Validation("no profile fields to update")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.loadUser(ctx, tx.Preload("ChefProfile"), userID)
		if err != nil {
			return err
		}
		if req.HasChefFields() && user.Role != models.RoleChef {
			return apperrors.Validation("chef profile fields are only allowed for chefs")
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Bio != nil {
			updates["bio"] = *req.Bio
		}
		if req.DietaryLabels != nil {
			updates["dietary_labels"] = models.StringArray(models.NormalizeLabels(*req.DietaryLabels))
		}
		if req.Allergens != nil {
			updates["allergens"] = models.StringArray(models.NormalizeLabels(*req.Allergens))
		}
		if req.Cuisine != nil {
			updates["cuisine"] = models.StringArray(models.NormalizeLabels(*req.Cuisine))
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if !req.HasChefFields() {
			return nil
		}
		chef := user.ChefProfile
		if chef == nil {
			chef = &models.ChefProfile{UserID: userID, ExternalLinks: models.StringArray{}}
		}
		if req.Education != nil {
			chef.Education = *req.Education
		}
		if req.Experience != nil {
			chef.Experience = *req.Experience
		}
		if req.ExternalLinks != nil {
			chef.ExternalLinks = models.StringArray(*req.ExternalLinks)
		}
		if req.SubscriptionPrice != nil {
			chef.SubscriptionPrice = req.SubscriptionPrice
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(chef).Error
	})
	if err != nil {
		return nil, s.dependency("update profile", err)
	}
	return s.profile(ctx, userID)
}

// ChangeAvatar stores a new avatar and deletes the previous blob once the
// profile points at the new one.
func (s *ProfileService) ChangeAvatar(ctx context.Context, userID uuid.UUID, file *Upload) (models.Image, error) {
	if file == nil {
		return models.Image{}, apperrors.Validation("avatar is required")
	}

	sctx, cancel := s.timeout.context(ctx)
	defer cancel()

	user, err := s.loadUser(sctx, s.db.Select("id", "avatar_id", "avatar_url"), userID)
	if err != nil {
		return models.Image{}, err
	}

	img, err := s.blobs.Upload(ctx, file.Name, file.ContentType, file.Body)
	if err != nil {
		return models.Image{}, s.dependency("upload avatar", err)
	}

	err = s.db.WithContext(sctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"avatar_id": img.ID, "avatar_url": img.URL}).Error
	if err != nil {
		s.deleteBlob(ctx, img.ID)
		return models.Image{}, s.dependency("update avatar", err)
	}

	if user.Avatar.ID != "" {
		s.deleteBlob(ctx, user.Avatar.ID)
	}
	return img, nil
}

func (s *ProfileService) GetFavourites(ctx context.Context, userID uuid.UUID) ([]models.RecipeListItem, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	if _, err := s.loadUser(ctx, s.db.Select("id"), userID); err != nil {
		return nil, err
	}
	items, err := s.pipeline.Execute(ctx, query.Favourites(userID, 0, MaxFavourites))
	if err != nil {
		return nil, s.dependency("list favourites", err)
	}
	return items, nil
}

func (s *ProfileService) profile(ctx context.Context, userID uuid.UUID) (*types.ProfileResponse, error) {
	user, err := s.loadUser(ctx, s.db.Preload("ChefProfile").Preload("Subscribed").Preload("Favourites"), userID)
	if err != nil {
		return nil, err
	}
	resp := &types.ProfileResponse{
		User:       user,
		Subscribed: user.SubscribedChefIDs(),
		Favourites: user.FavouriteIDs(),
	}
	if user.Role == models.RoleChef {
		if resp.Subscribers, err = s.subscriberCount(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *ProfileService) loadUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, s.dependency("load user", err)
	}
	return &user, nil
}

func (s *ProfileService) subscriberCount(ctx context.Context, chefID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.ChefSubscriber{}).Where("chef_id = ?", chefID).Count(&n).Error
	if err != nil {
		return 0, s.dependency("count subscribers", err)
	}
	return n, nil
}

func (s *ProfileService) deleteBlob(ctx context.Context, id string) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), id); err != nil {
		s.logger.Warn().Err(err).Str("blob_id", id).Msg("failed to delete blob")
	}
}

func (s *ProfileService) dependency(op string, err error) error {
	err = apperrors.Classify(op, err)
	if apperrors.IsKind(err, apperrors.KindDependency) {
		s.logger.Warn().Err(err).Str("op", op).Msg("store call failed")
	}
	return err
}
