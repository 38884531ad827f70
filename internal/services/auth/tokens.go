package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"popcorn/proj/internal/domain/models"
)

// GenerateToken returns a 32-byte cryptographically random opaque token,
// hex encoded. Used for email verification and one-time login lookups.
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type sessionClaims struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Verified bool   `json:"verified"`
	jwt.RegisteredClaims
}

func (a *AuthService) mintSession(user *models.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email:    user.Email,
		Name:     user.FullName(),
		Username: user.Username,
		Verified: user.IsEmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.Secret))
}

// ParseSession validates a session artifact and rebuilds the caller's
// identity from its claims, without touching the store.
func (a *AuthService) ParseSession(tokenString string) (*models.SessionUser, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return &models.SessionUser{
		ID:       claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Username: claims.Username,
		Verified: claims.Verified,
	}, nil
}
