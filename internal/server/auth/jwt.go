// Package auth implements the session token scheme and password hashing.
//
// Tokens are HS256 JWTs signed with a per-session key. A token is never
// self-contained proof of validity: validation requires the key stored on the
// session record, so deleting the session revokes every token signed with it.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fu050409/bronya/internal/common"
	"github.com/fu050409/bronya/internal/shared"
)

// Claims carries the registered claims plus the account, device, and a random
// nonce. The nonce only makes two tokens for the same account/device/instant
// distinguishable; it is not a secret.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Nonce     string `json:"random_part"`
	DeviceID  string `json:"device_id"`
}

// GenerateToken issues a signed session token for accountID on deviceID,
// valid for validityDuration from now.
func GenerateToken(accountID, deviceID string, key []byte, validityDuration time.Duration) (string, error) {
	nonce, err := shared.MakeRandHexString(common.TokenNonceLength)
	if err != nil {
		return "", err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		AccountID: accountID,
		Nonce:     nonce,
		DeviceID:  deviceID,
	})

	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken checks the signature and expiry of tokenString against key.
// It returns nil for a valid token, common.ErrTokenExpired for a correctly
// signed but expired one, and common.ErrInvalidToken for anything else
// (forged signature, malformed token, wrong algorithm).
func ValidateToken(tokenString string, key []byte) error {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}

	if !token.Valid {
		return common.ErrInvalidToken
	}

	return nil
}

// ParseClaims extracts the claims of a token after validating it against key.
func ParseClaims(tokenString string, key []byte) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
