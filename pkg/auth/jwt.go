package auth

import (
	"errors"
	"strconv"
	"time"

	"aquamon.io/water-quality-service/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

const (
	appName = "AquaMon"

	AccessTokenLifetime  = 30 * time.Minute
	RefreshTokenLifetime = 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	secretKey = []byte("aquamon-insecure-dev-secret")

	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongTokenUse = errors.New("wrong token type for this endpoint")
)

// SetSecretKey installs the signing key at startup. The default only exists
// so tests and development work without configuration.
func SetSecretKey(key []byte) {
	if len(key) > 0 {
		secretKey = key
	}
}

// Claims is the authorization payload transmitted via JWT.
type Claims struct {
	jwt.RegisteredClaims
	Username  string      `json:"username,omitempty"`
	Role      models.Role `json:"role,omitempty"`
	TokenType string      `json:"token_type,omitempty"`
}

func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

func newClaims(usr *models.User, tokenType string, lifetime time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    appName,
			Subject:   strconv.FormatUint(uint64(usr.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username:  usr.Username,
		Role:      usr.Role,
		TokenType: tokenType,
	}
}

func signedToken(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// GenerateTokenPair issues the access/refresh token pair for a freshly
// authenticated user.
func GenerateTokenPair(usr *models.User) (access string, refresh string, err error) {
	if access, err = signedToken(newClaims(usr, tokenTypeAccess, AccessTokenLifetime)); err != nil {
		return "", "", err
	}
	if refresh, err = signedToken(newClaims(usr, tokenTypeRefresh, RefreshTokenLifetime)); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func parseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccessToken validates a bearer token presented on an API request.
func ParseAccessToken(tokenStr string) (*Claims, error) {
	claims, err := parseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}

// ParseRefreshToken validates a token presented to the refresh endpoint.
func ParseRefreshToken(tokenStr string) (*Claims, error) {
	claims, err := parseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}

// RefreshAccessToken mints a new access token once refresh claims validated.
func RefreshAccessToken(usr *models.User) (string, error) {
	return signedToken(newClaims(usr, tokenTypeAccess, AccessTokenLifetime))
}
