package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	infrastore "github.com/gokmen-54/nalburos-web-deploy/internal/infrastructure/store"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/apperror"
	"github.com/gokmen-54/nalburos-web-deploy/pkg/utils"
)

func newAuthEnv(t *testing.T) (*AuthService, store.RecordStore, *utils.JWTManager) {
	t.Helper()
	rs := infrastore.NewMemoryStore()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(rs, jwtManager, zaptest.NewLogger(t)), rs, jwtManager
}

func seedUser(t *testing.T, rs store.RecordStore, username, password string, role enum.UserRole) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	users := []entity.User{{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Name:         "Test User",
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}}
	require.NoError(t, store.Save(context.Background(), rs, store.Users, users))
}

func TestLogin(t *testing.T) {
	svc, rs, jwtManager := newAuthEnv(t)
	seedUser(t, rs, "kasiyer1", "gizli123", enum.RoleCashier)

	result, err := svc.Login(context.Background(), "kasiyer1", "gizli123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "kasiyer1", result.Actor.Username)
	assert.Equal(t, enum.RoleCashier, result.Actor.Role)

	claims, err := jwtManager.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "kasiyer1", claims.Username)
	assert.Equal(t, enum.RoleCashier, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, rs, _ := newAuthEnv(t)
	seedUser(t, rs, "kasiyer1", "gizli123", enum.RoleCashier)

	_, err := svc.Login(context.Background(), "kasiyer1", "yanlis")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	_, err = svc.Login(context.Background(), "yok", "gizli123")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestRefresh(t *testing.T) {
	svc, rs, _ := newAuthEnv(t)
	seedUser(t, rs, "mudur", "gizli123", enum.RoleManager)

	login, err := svc.Login(context.Background(), "mudur", "gizli123")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "mudur", refreshed.Actor.Username)

	_, err = svc.Refresh(context.Background(), "not-a-token")
	assert.Error(t, err)
}
