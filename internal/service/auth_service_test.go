package service

import (
	"testing"
	"time"

	"civilpass_backend/internal/config"
	"civilpass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_PlainPassword(t *testing.T) {
	cfg := &config.Config{}
	cfg.Admin.Password = "s3cret"
	cfg.Admin.JWTSecret = "test-secret"
	cfg.Admin.ExpireTime = time.Hour
	svc := NewAuthService(cfg)

	_, err := svc.Login("wrong")
	assert.ErrorIs(t, err, util.ErrInvalidPassword)

	_, err = svc.Login("")
	assert.ErrorIs(t, err, util.ErrInvalidPassword)

	token, err := svc.Login("s3cret")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, util.RoleAdmin, claims.Role)
}

func TestAuthService_HashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Admin.Password = "plain"
	cfg.Admin.PasswordHash = string(hash)
	cfg.Admin.JWTSecret = "test-secret"
	cfg.Admin.ExpireTime = time.Hour
	svc := NewAuthService(cfg)

	_, err = svc.Login("plain")
	assert.ErrorIs(t, err, util.ErrInvalidPassword)

	_, err = svc.Login("hashed-pass")
	assert.NoError(t, err)
}
