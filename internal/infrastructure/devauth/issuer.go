// Package devauth issues and verifies HS256 identity tokens for local
// development, where no Firebase project is configured.
package devauth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"reqmarket/pkg/errors"
)

const issuer = "reqmarket-dev"

type claims struct {
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GenerateToken signs a token whose subject is identity.
func (i *Issuer) GenerateToken(ctx context.Context, identity string) (string, error) {
	if identity == "" {
		return "", errors.BadRequest("Identity is required", nil)
	}

	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", errors.Internal("Failed to sign token", err)
	}
	return signed, nil
}

// VerifyToken returns the identity carried by a token from GenerateToken.
func (i *Issuer) VerifyToken(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return "", errors.Unauthorized("Invalid or expired token", jwt.ErrTokenInvalidClaims)
	}
	return c.Subject, nil
}
