package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tillpointhq/tillpoint-backend/pkg/backend"
	pkgerrors "github.com/tillpointhq/tillpoint-backend/pkg/errors"
	"github.com/tillpointhq/tillpoint-backend/pkg/logger"
)

const minPasswordLength = 8

type sessionProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*backend.Session, error)
	SignUp(ctx context.Context, email, password, name string) (*backend.Session, error)
	SignOut(ctx context.Context, token string) error
	GetUser(ctx context.Context, token string) (*backend.User, error)
}

// Service fronts the hosted auth provider. It never stores credentials or
// sessions; every call is a pass-through with the provider's failures mapped
// onto the local error taxonomy.
type Service interface {
	Login(ctx context.Context, email, password string) (*backend.Session, error)
	Signup(ctx context.Context, email, password, name string) (*backend.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*backend.Session, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (*backend.User, error)
}

type service struct {
	provider sessionProvider
	logger   *logger.Logger
}

func NewService(provider sessionProvider, logg *logger.Logger) (Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("session provider required")
	}
	return &service{provider: provider, logger: logg}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*backend.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	session, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, mapAuthError(err, "invalid email or password")
	}
	if s.logger != nil {
		s.logger.Info(s.logger.WithUserID(ctx, session.User.ID), "auth.login")
	}
	return session, nil
}

func (s *service) Signup(ctx context.Context, email, password, name string) (*backend.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}
	if len(password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	session, err := s.provider.SignUp(ctx, email, password, strings.TrimSpace(name))
	if err != nil {
		return nil, mapAuthError(err, "signup failed")
	}
	if s.logger != nil {
		s.logger.Info(s.logger.WithUserID(ctx, session.User.ID), "auth.signup")
	}
	return session, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*backend.Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refresh token required")
	}

	session, err := s.provider.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, mapAuthError(err, "session expired, sign in again")
	}
	return session, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if err := s.provider.SignOut(ctx, token); err != nil {
		// a dead token is already signed out as far as the terminal cares
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil
		}
		return mapAuthError(err, "logout failed")
	}
	return nil
}

func (s *service) Profile(ctx context.Context, token string) (*backend.User, error) {
	user, err := s.provider.GetUser(ctx, token)
	if err != nil {
		return nil, mapAuthError(err, "failed to load profile")
	}
	return user, nil
}

// mapAuthError converts provider failures into the local taxonomy. 4xx
// responses become auth or validation failures with a generic message so
// provider internals never leak to the terminal; everything else is a
// dependency failure.
func mapAuthError(err error, message string) *pkgerrors.Error {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "auth service unreachable")
	}

	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, message)
	case apiErr.StatusCode == http.StatusUnprocessableEntity || apiErr.StatusCode == http.StatusBadRequest:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message).
			WithDetails(map[string]any{"auth_message": apiErr.Message})
	case apiErr.StatusCode == http.StatusConflict:
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "an account with this email already exists")
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, "too many attempts, slow down")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "auth service error")
	}
}
