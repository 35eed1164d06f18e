package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/fileshare-server/internal/model"
)

// Claims represents session token claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	maxAge    time.Duration
	now       func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager. Tokens older than maxAge are rejected.
func NewJWT(secretKey string, maxAge time.Duration) *JWT {
	return &JWT{secretKey: []byte(secretKey), maxAge: maxAge, now: time.Now}
}

// Generate creates a session token binding the user ID and issuance time.
func (j *JWT) Generate(userID uuid.UUID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.maxAge)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Parse validates the signature and age of a session token and extracts the user ID.
func (j *JWT) Parse(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, errors.New("session token is invalid")
	}

	// exp alone is not enough: a token minted under a longer max age stays
	// valid until its own exp otherwise.
	if claims.IssuedAt == nil || j.now().Sub(claims.IssuedAt.Time) > j.maxAge {
		return uuid.Nil, errors.New("session token is too old")
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, errors.New("session token has no subject")
	}

	return claims.UserID, nil
}
