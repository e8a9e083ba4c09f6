package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kindnet/kindnet-server/internal/model"
)

// Claims represents session token claims carrying the user email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey  string
	sessionTTL time.Duration
}

const defaultSessionTTL = 2 * time.Hour

// NewJWT creates a new JWT token manager with the provided secret key.
// A non-positive ttl falls back to the default two-hour session lifetime.
func NewJWT(secretKey string, ttl time.Duration) model.TokenManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &JWT{secretKey: secretKey, sessionTTL: ttl}
}

// GenerateSessionToken creates a signed session token scoped to the email.
func (j *JWT) GenerateSessionToken(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.sessionTTL)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ParseSessionToken validates the signature and expiry and extracts the
// email claim. Any failure mode (bad signature, expired, malformed) is an
// error; callers map it to Unauthenticated uniformly.
func (j *JWT) ParseSessionToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("session token is invalid")
	}
	if claims.Email == "" {
		return "", fmt.Errorf("session token has no email claim")
	}
	return claims.Email, nil
}
