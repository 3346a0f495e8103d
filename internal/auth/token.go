package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cse-motors/motors/internal/models"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
)

// TokenTTL is the absolute lifetime of an issued token. Expiry is fixed at
// issuance, not extended by activity.
const TokenTTL = time.Hour

// Claims is the identity snapshot embedded in a token. It never carries the
// password hash; any change to the underlying account requires issuing a
// fresh token.
type Claims struct {
	AccountID   int64              `json:"account_id"`
	FirstName   string             `json:"account_firstname"`
	LastName    string             `json:"account_lastname"`
	Email       string             `json:"account_email"`
	AccountType models.AccountType `json:"account_type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies bearer tokens with a server-held secret.
type TokenManager struct {
	secretKey []byte
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secretKey string) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
	}
}

// Generate creates a signed token carrying the account's identity claims.
func (tm *TokenManager) Generate(account *models.Account) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID:   account.ID,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Email:       account.Email,
		AccountType: account.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// Validate verifies a token and returns its claims.
func (tm *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
