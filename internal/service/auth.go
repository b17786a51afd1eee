package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bitebot/backend/internal/apperrors"
	"github.com/bitebot/backend/internal/models"
	"github.com/bitebot/backend/internal/types"
	"github.com/bitebot/backend/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidToken = errors.New("invalid token")

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
	timeout   storeTimeout
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL, timeout time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		timeout:   storeTimeout(timeout),
	}
}

// TokenTTL is the lifetime of issued tokens
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, "", err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:         email,
		PasswordHash:  string(hashedPassword),
		Role:          role,
		Name:          strings.TrimSpace(req.Name),
		Cuisine:       models.StringArray(models.NormalizeLabels(req.Cuisine)),
		DietaryLabels: models.StringArray(models.NormalizeLabels(req.DietaryLabels)),
		Allergens:     models.StringArray{},
	}
	if role == models.RoleChef {
		user.ChefProfile = &models.ChefProfile{ExternalLinks: models.StringArray{}}
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict("User already exists with this email")
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, "", apperrors.Classify("register user", err)
	}

	token, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*models.User, string, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, "", err
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var user models.User
	err := s.db.WithContext(ctx).Preload("ChefProfile").
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperrors.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, "", apperrors.Classify("load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *types.ChangePasswordRequest) error {
	if err := validation.ValidateStruct(req); err != nil {
		return err
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "password_hash").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("user")
		}
		return apperrors.Classify("load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperrors.Unauthorized("Incorrect credentials")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", string(hashed)).Error
	return apperrors.Classify("update password", err)
}

func (s *AuthService) GenerateToken(userID uuid.UUID, role models.Role) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID: userID,
		Role:   role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
