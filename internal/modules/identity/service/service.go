package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tr33-app/tr33-backend/internal/entity"
	"github.com/tr33-app/tr33-backend/internal/middleware"
	"github.com/tr33-app/tr33-backend/internal/modules/identity/dto"
	"github.com/tr33-app/tr33-backend/internal/modules/identity/repository"
	"github.com/tr33-app/tr33-backend/pkg/apperror"
)

// IdentityService resolves a user-supplied nickname to an identity.
// Register and Login stay two distinct operations with two distinct
// error conditions; they are deliberately not unified into an upsert.
type IdentityService interface {
	Register(ctx context.Context, input dto.NicknameInput) (*dto.SessionResponse, error)
	Login(ctx context.Context, input dto.NicknameInput) (*dto.SessionResponse, error)
}

type identityService struct {
	repo     repository.UserRepository
	secret   string
	tokenTTL time.Duration
}

func NewIdentityService(repo repository.UserRepository, secret string) IdentityService {
	// Sessions have no explicit expiry in the app; a long TTL stands in
	// for "until app data is cleared".
	ttl := 24 * time.Hour * 365
	if ttlStr := os.Getenv("SESSION_TTL_HOURS"); ttlStr != "" {
		if hours, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(hours) * time.Hour
		}
	}

	return &identityService{
		repo:     repo,
		secret:   secret,
		tokenTTL: ttl,
	}
}

func (s *identityService) Register(ctx context.Context, input dto.NicknameInput) (*dto.SessionResponse, error) {
	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname must not be empty", apperror.ErrInvalidInput)
	}

	user := &entity.User{Nickname: nickname}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.buildSession(user)
}

func (s *identityService) Login(ctx context.Context, input dto.NicknameInput) (*dto.SessionResponse, error) {
	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname must not be empty", apperror.ErrInvalidInput)
	}

	user, err := s.repo.FindByNickname(ctx, nickname)
	if err != nil {
		return nil, err
	}

	return s.buildSession(user)
}

// buildSession issues the token carrying the id/nickname pair, so the
// client stores both atomically.
func (s *identityService) buildSession(user *entity.User) (*dto.SessionResponse, error) {
	claims := middleware.SessionClaims{
		Nickname: user.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &dto.SessionResponse{
		User: dto.UserResponse{
			ID:        user.ID,
			Nickname:  user.Nickname,
			CreatedAt: user.CreatedAt,
		},
		Token: signed,
	}, nil
}
