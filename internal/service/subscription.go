package service

import (
	"context"
	"errors"
	"time"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionService keeps user_subscriptions and chef_subscribers equal.
// Subscribing twice or unsubscribing when not subscribed is a no-op.
type SubscriptionService struct {
	db      *gorm.DB
	logger  zerolog.Logger
	timeout storeTimeout
}

func NewSubscriptionService(db *gorm.DB, logger zerolog.Logger, timeout time.Duration) *SubscriptionService {
	return &SubscriptionService{
		db:      db,
		logger:  logger.With().Str("component", "subscriptions").Logger(),
		timeout: storeTimeout(timeout),
	}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, userID, chefID uuid.UUID) error {
	if userID == chefID {
		return apperrors.Validation("cannot subscribe to yourself")
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chef models.User
		if err := tx.Select("id", "role").First(&chef, "id = ?", chefID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("chef")
			}
			return err
		}
		if chef.Role != models.RoleChef {
			return apperrors.Validation("user is not a chef")
		}

		sub := &models.UserSubscription{UserID: userID, ChefID: chefID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error; err != nil {
			return err
		}
		mirror := &models.ChefSubscriber{ChefID: chefID, SubscriberID: userID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(mirror).Error
	})
	return s.result("subscribe", userID, chefID, err)
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, chefID uuid.UUID) error {
	if userID == chefID {
		return apperrors.Validation("cannot unsubscribe from yourself")
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND chef_id = ?", userID, chefID).Delete(&models.UserSubscription{}).Error; err != nil {
			return err
		}
		return tx.Where("chef_id = ? AND subscriber_id = ?", chefID, userID).Delete(&models.ChefSubscriber{}).Error
	})
	return s.result("unsubscribe", userID, chefID, err)
}

func (s *SubscriptionService) result(op string, userID, chefID uuid.UUID, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.KindOf(err) != "" {
		return err
	}
	s.logger.Warn().Err(err).
		Str("user_id", userID.String()).
		Str("chef_id", chefID.String()).
		Msg(op + " rolled back")
	return apperrors.Consistency(op, err)
}
