// Package service holds the link service and the JWT based identity used
// by the HTTP and gRPC layers to tell users apart.
package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AuthIface defines the interface for JWT authentication used in middleware.
type AuthIface interface {
	BuildJWTString() (string, string, error)
	ParseClaims(c *http.Cookie) (*Claims, error)
	ParseRawJWT(tokenString string) (*Claims, error)
}

// Claims represents the claims that are included in the JWT token.
type Claims struct {
	jwt.RegisteredClaims
	// UserID identifies the owner of saved links.
	UserID string `json:"user_id"`
}

// TokenExp defines the expiration time of the JWT token (1 year).
const TokenExp = time.Hour * 24 * 365

// DevSecret signs tokens when no secret is configured.
const DevSecret = "bearlink-dev-secret"

var ErrInvalidToken = errors.New("invalid token or claims")

// Auth builds and parses the identity tokens.
type Auth struct {
	secret []byte
	now    func() time.Time
}

// NewAuth creates an Auth signing with secret. An empty secret falls back
// to DevSecret.
func NewAuth(secret string) *Auth {
	if secret == "" {
		secret = DevSecret
	}
	return &Auth{secret: []byte(secret), now: time.Now}
}

// BuildJWTString mints a new user ID and returns a signed token for it
// along with the ID.
func (a *Auth) BuildJWTString() (string, string, error) {
	userID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(a.now()),
			ExpiresAt: jwt.NewNumericDate(a.now().Add(TokenExp)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, userID, nil
}

// ParseClaims parses the JWT token stored in the cookie.
func (a *Auth) ParseClaims(c *http.Cookie) (*Claims, error) {
	return a.ParseRawJWT(c.Value)
}

func (a *Auth) ParseRawJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
