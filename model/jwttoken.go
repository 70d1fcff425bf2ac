package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the session cookie issued at login.
type SessionClaims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
