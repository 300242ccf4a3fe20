package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for counselor/admin access
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string `json:"token"`
	AdminID   string `json:"adminId"`
	ExpiresAt int64  `json:"expiresAt"`
}
