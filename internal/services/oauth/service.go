package oauth

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/deepgram/danmaku/internal/config"
	"github.com/deepgram/danmaku/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	GrantTypeAnonymous = "anonymous"
	issuer             = "danmaku"
)

// ExtractToken reads a bearer token from the Authorization header, falling back
// to the access_token query parameter because browsers cannot set headers on
// websocket upgrades.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return r.URL.Query().Get("access_token")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		logger.For(logger.OAUTH).Warn().Msg("Malformed Authorization header")
		return ""
	}

	return parts[1]
}

type TokenValidationResult struct {
	Valid     bool
	GrantType string
	ExpiresAt time.Time
	Scopes    []string
}

func (r TokenValidationResult) HasScope(scope string) bool {
	return slices.Contains(r.Scopes, scope)
}

type CustomClaims struct {
	jwt.RegisteredClaims
	GrantType string   `json:"gty"`
	Scopes    []string `json:"scp"`
}

// IssueToken signs an access token for the given grant and scopes.
func IssueToken(grantType string, scopes []string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
		GrantType: grantType,
		Scopes:    scopes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(config.GetJWTSecret())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func ValidateToken(tokenString string) TokenValidationResult {
	l := logger.For(logger.OAUTH)
	result := TokenValidationResult{Valid: false}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return config.GetJWTSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		l.Warn().Err(err).Msg("Failed to parse token")
		return result
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		l.Warn().Msg("Invalid token claims")
		return result
	}

	if claims.GrantType != GrantTypeAnonymous {
		l.Warn().Str("grant_type", claims.GrantType).Msg("Invalid grant type in token")
		return result
	}

	result.Valid = true
	result.GrantType = claims.GrantType
	result.ExpiresAt = claims.ExpiresAt.Time
	result.Scopes = claims.Scopes
	return result
}
