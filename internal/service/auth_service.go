package service

import (
	"crypto/subtle"

	"civilpass_backend/internal/config"
	"civilpass_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{Cfg: cfg}
}

// Login 管理员口令登录，成功返回 JWT
func (s *AuthService) Login(password string) (string, error) {
	if !s.checkPassword(password) {
		return "", util.ErrInvalidPassword
	}
	return util.GenerateJWT(util.RoleAdmin, s.Cfg.Admin.JWTSecret, s.Cfg.Admin.ExpireTime)
}

func (s *AuthService) checkPassword(password string) bool {
	if password == "" {
		return false
	}
	if hash := s.Cfg.Admin.PasswordHash; hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.Cfg.Admin.Password)) == 1
}
