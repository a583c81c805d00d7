package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-bot/internal/auth"
	"github.com/spec-kit/complaint-bot/internal/config"
	"github.com/spec-kit/complaint-bot/internal/domain"
	"github.com/spec-kit/complaint-bot/internal/repository"
	apperrors "github.com/spec-kit/complaint-bot/pkg/util/errorutil"
)

// AuthService authenticates admins for the HTTP API.
type AuthService struct {
	admins     repository.AdminRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, admins repository.AdminRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		admins:     admins,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	account, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issueToken(account.Username)
}

// Bootstrap creates the initial admin account when none exists and
// credentials are configured. Safe to call on every startup.
func (s *AuthService) Bootstrap(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	account := &domain.AdminAccount{
		Username:     username,
		DisplayName:  username,
		PasswordHash: hash,
	}
	if err := s.admins.Create(ctx, account); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin account created", zap.String("username", username))
	return nil
}

func (s *AuthService) issueToken(username string) (string, time.Time, error) {
	token, expiresAt, err := s.tokens.GenerateToken(username)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
