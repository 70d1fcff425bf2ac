package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tasktracker/model"
)

const tokenIssuer = "tasktracker"

var errEmptySecret = errors.New("session secret is empty")

type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// CreateSessionToken signs a session token for identity.
func (s *TokenService) CreateSessionToken(identity Identity) (string, error) {
	now := time.Now()
	claims := &model.SessionClaims{
		UserID:   identity.UserID,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseSessionToken validates signature, issuer and expiry.
func (s *TokenService) ParseSessionToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrAuthentication, err)
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("%w: invalid session claims", model.ErrAuthentication)
	}
	return claims, nil
}

// Validate reports configuration problems before the server starts.
func (s *TokenService) Validate() error {
	if len(s.secret) == 0 {
		return errEmptySecret
	}
	if s.ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", s.ttl)
	}
	return nil
}
