package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/apperror"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/utils"
)

// AuthService authenticates users and issues tokens. The engine never sees
// credentials; it only consumes the resolved actor.
type AuthService struct {
	store      store.RecordStore
	jwtManager *utils.JWTManager
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(rs store.RecordStore, jwtManager *utils.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{store: rs, jwtManager: jwtManager, logger: logger}
}

// LoginResult carries issued tokens and the authenticated actor.
type LoginResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Actor        entity.Actor `json:"user"`
}

// Login verifies the username and password against the users collection.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login failed", zap.String("username", username))
		return nil, apperror.ErrInvalidCredentials
	}

	access, err := s.jwtManager.GenerateAccessToken(user.Username, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("username", username))
	return &LoginResult{AccessToken: access, RefreshToken: refresh, Actor: user.Actor()}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	username, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}

	access, err := s.jwtManager.GenerateAccessToken(user.Username, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, RefreshToken: refresh, Actor: user.Actor()}, nil
}

func (s *AuthService) findUser(ctx context.Context, username string) (*entity.User, error) {
	users, err := store.Load[entity.User](ctx, s.store, store.Users)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, nil
}
