package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mindscreen/internal/config"
	"mindscreen/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAuthDisabled       = errors.New("admin login is not configured")
)

// AuthService handles admin authentication
type AuthService struct {
	adminUsername string
	adminPassword string
	jwtSecret     []byte
	tokenTTL      time.Duration
	now           func() time.Time
}

// NewAuthService creates a new auth service from the admin settings
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		adminUsername: cfg.AdminUsername,
		adminPassword: cfg.AdminPassword,
		jwtSecret:     []byte(cfg.JWTSecret),
		tokenTTL:      cfg.TokenTTL,
		now:           time.Now,
	}
}

func (s *AuthService) enabled() bool {
	return s.adminPassword != "" && len(s.jwtSecret) > 0
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if !s.enabled() {
		return nil, ErrAuthDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	adminID := "admin_" + uuid.New().String()[:8]
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	claims := &model.AdminClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   s.adminUsername,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		AdminID:   adminID,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// ValidateAdminToken validates an admin JWT and returns claims
func (s *AuthService) ValidateAdminToken(tokenString string) (*model.AdminClaims, error) {
	if !s.enabled() {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &model.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AdminClaims)
	if !ok || !token.Valid || claims.AdminID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
