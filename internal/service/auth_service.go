package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/kiosk-service/internal/auth"
	"github.com/spec-kit/kiosk-service/internal/config"
	"github.com/spec-kit/kiosk-service/internal/domain"
	"github.com/spec-kit/kiosk-service/internal/repository"
	"github.com/spec-kit/kiosk-service/pkg/util"
)

// AuthService coordinates admin registration and login flows. It holds
// no session state; every protected request re-validates its token.
type AuthService struct {
	admins     repository.AdminRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AdminRepo repository.AdminRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		admins:     deps.AdminRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Authenticate verifies credentials and issues a bearer token. A
// missing login and a wrong password produce the same error so probes
// cannot enumerate accounts.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, util.NewUnauthorized("incorrect username or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, util.NewUnauthorized("incorrect username or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin.Login)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, exp, nil
}

// CreateAdmin registers a new staff account.
func (s *AuthService) CreateAdmin(ctx context.Context, login, password string) (*domain.Admin, error) {
	if _, err := s.admins.GetByLogin(ctx, login); err == nil {
		return nil, util.NewConflict("admin with this username already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{Login: login, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		// Lost the race against a concurrent registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("admin with this username already exists", nil)
		}
		return nil, err
	}
	return admin, nil
}

// ListAdmins returns all staff accounts. Callers must never serialize
// the password hashes.
func (s *AuthService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	return s.admins.List(ctx)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
