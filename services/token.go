package services

import (
	"fmt"
	"time"

	"notetaker/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and validates the HS256 access and refresh tokens.
type TokenManager struct {
	cfg config.JWTConfig
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{cfg: cfg}
}

func (tm *TokenManager) GenerateAccessToken(userID string) (string, error) {
	return tm.generate(userID, "access", tm.cfg.AccessExpiration)
}

func (tm *TokenManager) GenerateRefreshToken(userID string) (string, error) {
	return tm.generate(userID, "refresh", tm.cfg.RefreshExpiration)
}

func (tm *TokenManager) generate(userID, tokenType string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    tokenType,
		"iss":     tm.cfg.Issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(tm.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates signature, expiry, issuer and token type,
// and returns the user id carried in the claims.
func (tm *TokenManager) ParseAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.cfg.SecretKey), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	if tokenType, exists := claims["type"]; exists && tokenType == "refresh" {
		return "", fmt.Errorf("refresh token used as access token")
	}

	if iss, ok := claims["iss"].(string); ok && iss != tm.cfg.Issuer {
		return "", fmt.Errorf("invalid token issuer")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("missing user ID in token")
	}
	return userID, nil
}

// TokenExpiry extracts the exp claim without validating the signature.
// Used to size blacklist TTLs for tokens being revoked.
func (tm *TokenManager) TokenExpiry(tokenString string) time.Time {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Now().Add(24 * time.Hour)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Now().Add(24 * time.Hour)
	}
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0)
	}
	return time.Now().Add(24 * time.Hour)
}
