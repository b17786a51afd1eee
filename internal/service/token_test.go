package service

import (
	"context"
	"testing"
	"time"

	"github.com/bitebot/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateTokenValid(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", time.Hour, 0)
	userID := uuid.New()
	token, err := svc.GenerateToken(userID, models.RoleChef)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, models.RoleChef, claims.Role)
}

func TestValidateTokenInvalid(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", time.Hour, 0)

	claims, err := svc.ValidateToken("invalid.token")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewAuthService(nil, "other-secret", time.Hour, 0).GenerateToken(uuid.New(), models.RoleUser)
	assert.NoError(t, err)

	_, err = NewAuthService(nil, "test-secret", time.Hour, 0).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", time.Hour, 0)
	svc.tokenTTL = -time.Minute
	token, err := svc.GenerateToken(uuid.New(), models.RoleUser)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStoreTimeoutDefault(t *testing.T) {
	ctx, cancel := storeTimeout(0).context(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultStoreTimeout), deadline, time.Second)
}
